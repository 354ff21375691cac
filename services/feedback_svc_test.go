package services

import (
	"testing"

	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var ratingSchema = models.JSONMap{
	"type":     "object",
	"required": []interface{}{"rating"},
	"properties": map[string]interface{}{
		"rating":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
		"comment": map[string]interface{}{"type": "string"},
	},
}

func createSchemaChannel(t *testing.T, db *gorm.DB, project models.Project) models.Channel {
	t.Helper()
	channel := models.Channel{ProjectID: project.ID, Name: "ratings", FieldsSchema: ratingSchema}
	require.NoError(t, db.Create(&channel).Error)
	return channel
}

func TestCreateFeedbackValidatesAgainstSchema(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	channel := createSchemaChannel(t, db, project)

	fs := NewFeedbackService(db, testConfig(), events.NewBus())

	feedback, err := fs.CreateFeedback(channel.ID, models.JSONMap{
		"rating":  float64(4),
		"comment": "solid",
	})
	require.NoError(t, err)
	assert.Equal(t, channel.ID, feedback.ChannelID)

	// missing required field
	_, err = fs.CreateFeedback(channel.ID, models.JSONMap{"comment": "no rating"})
	assert.True(t, errors.Is(err, helpers.ErrValidation))

	// out of range
	_, err = fs.CreateFeedback(channel.ID, models.JSONMap{"rating": float64(9)})
	assert.True(t, errors.Is(err, helpers.ErrValidation))

	// only the valid submission is stored
	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateFeedbackWithoutSchemaAcceptsAnything(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	channel := createChannel(t, db, project, "web")

	fs := NewFeedbackService(db, testConfig(), events.NewBus())

	feedback, err := fs.CreateFeedback(channel.ID, models.JSONMap{"anything": "goes"})
	require.NoError(t, err)
	assert.Equal(t, "goes", feedback.Data["anything"])
}

func TestCreateFeedbackUnknownChannel(t *testing.T) {
	db := newTestDB(t)
	fs := NewFeedbackService(db, testConfig(), events.NewBus())

	_, err := fs.CreateFeedback(uuid.NewV4(), models.JSONMap{"x": "y"})
	assert.True(t, errors.Is(err, helpers.ErrNotFound))
}

func TestCreateFeedbackPublishesEvent(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	channel := createChannel(t, db, project, "web")

	bus := events.NewBus()
	var published events.FeedbackCreated
	bus.Subscribe(models.EventFeedbackCreation, func(p interface{}) error {
		published = p.(events.FeedbackCreated)
		return nil
	})

	fs := NewFeedbackService(db, testConfig(), bus)
	feedback, err := fs.CreateFeedback(channel.ID, models.JSONMap{"text": "hi"})
	require.NoError(t, err)

	bus.Drain()
	assert.Equal(t, feedback.ID, published.FeedbackID)
}

func TestAddIssue(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	channel := createChannel(t, db, project, "web")
	issue := createIssue(t, db, project, "crash on login")

	bus := events.NewBus()
	var published events.IssueAdded
	bus.Subscribe(models.EventIssueAddition, func(p interface{}) error {
		published = p.(events.IssueAdded)
		return nil
	})

	fs := NewFeedbackService(db, testConfig(), bus)
	feedback, err := fs.CreateFeedback(channel.ID, models.JSONMap{"text": "it crashed"})
	require.NoError(t, err)

	feedback, err = fs.AddIssue(feedback.ID, issue.ID)
	require.NoError(t, err)
	require.Len(t, feedback.Issues, 1)
	assert.Equal(t, issue.ID, feedback.Issues[0].ID)

	bus.Drain()
	assert.Equal(t, feedback.ID, published.FeedbackID)
	assert.Equal(t, issue.ID, published.IssueID)

	feedback, err = fs.RemoveIssue(feedback.ID, issue.ID)
	require.NoError(t, err)
	assert.Empty(t, feedback.Issues)
}

func TestAddIssueAcrossProjects(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	channel := createChannel(t, db, project, "web")
	other := createProject(t, db, "other")
	foreign := createIssue(t, db, other, "unrelated")

	fs := NewFeedbackService(db, testConfig(), events.NewBus())
	feedback, err := fs.CreateFeedback(channel.ID, models.JSONMap{"text": "hi"})
	require.NoError(t, err)

	_, err = fs.AddIssue(feedback.ID, foreign.ID)
	assert.True(t, errors.Is(err, helpers.ErrValidation))
}
