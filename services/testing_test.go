package services

import (
	"fmt"
	"testing"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database and migrates the full
// schema. The database is named after the test so parallel tests never
// share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.AuditLog{},
		&models.User{},
		&models.Role{},
		&models.Project{},
		&models.Member{},
		&models.ApiKey{},
		&models.Channel{},
		&models.Category{},
		&models.Issue{},
		&models.Feedback{},
		&models.Webhook{},
		&models.WebhookEvent{},
	))

	return db
}

func testConfig() config.Config {
	return config.NewConfig()
}

func createProject(t *testing.T, db *gorm.DB, name string) models.Project {
	t.Helper()
	project := models.Project{Name: name}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func createChannel(t *testing.T, db *gorm.DB, project models.Project, name string) models.Channel {
	t.Helper()
	channel := models.Channel{ProjectID: project.ID, Name: name}
	require.NoError(t, db.Create(&channel).Error)
	return channel
}

func createIssue(t *testing.T, db *gorm.DB, project models.Project, name string) models.Issue {
	t.Helper()
	issue := models.Issue{ProjectID: project.ID, Name: name, Status: models.IssueStatusInit}
	require.NoError(t, db.Create(&issue).Error)
	return issue
}
