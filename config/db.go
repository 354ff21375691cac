package config

import (
	"log"

	"github.com/feedhub-io/feedhub/models"
	"github.com/lib/pq"

	"gorm.io/gorm"
)

func InitDB(db *gorm.DB, conf Config) {
	err := db.AutoMigrate(
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
	)
	if err != nil {
		log.Println("Error during Postgres AutoMigrate")
		log.Println(err)
	}

	var root = models.User{Username: "root", Provider: "local", Builtin: true}
	db.FirstOrCreate(&root)

	var builtinRoles = []models.Role{
		{Name: "Owner", Permissions: pq.StringArray{"*:write"}, Builtin: true},
		{Name: "Editor", Permissions: pq.StringArray{
			"channels:write", "feedbacks:write", "issues:write", "categories:write", "webhooks:write",
		}, Builtin: true},
		{Name: "Viewer", Permissions: pq.StringArray{"*:read"}, Builtin: true},
	}
	db.Create(&builtinRoles)

	// rules to prevent builtin deletion or update
	db.Exec("CREATE RULE builtin_del_users AS ON DELETE TO users WHERE builtin DO INSTEAD nothing;")
	db.Exec("CREATE RULE builtin_upd_users AS ON UPDATE TO users WHERE old.builtin DO INSTEAD nothing;")
	db.Exec("CREATE RULE builtin_del_roles AS ON DELETE TO roles WHERE builtin DO INSTEAD nothing;")
	db.Exec("CREATE RULE builtin_upd_roles AS ON UPDATE TO roles WHERE old.builtin DO INSTEAD nothing;")
}
