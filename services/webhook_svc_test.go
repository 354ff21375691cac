package services

import (
	"testing"

	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEvent(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")
	mobile := createChannel(t, db, project, "mobile")

	other := createProject(t, db, "other")
	foreign := createChannel(t, db, other, "foreign")

	ws := NewWebhookService(db, testConfig())

	tests := []struct {
		name  string
		event WebhookEventInput
		want  bool
	}{
		{
			name:  "channel scoped with resolvable channels",
			event: WebhookEventInput{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID, mobile.ID}},
			want:  true,
		},
		{
			name:  "channel scoped without channels",
			event: WebhookEventInput{Type: models.EventFeedbackCreation},
			want:  false,
		},
		{
			name:  "channel scoped with unknown channel",
			event: WebhookEventInput{Type: models.EventIssueAddition, ChannelIDs: []uuid.UUID{web.ID, uuid.NewV4()}},
			want:  false,
		},
		{
			name:  "channel scoped with another project's channel",
			event: WebhookEventInput{Type: models.EventIssueAddition, ChannelIDs: []uuid.UUID{foreign.ID}},
			want:  false,
		},
		{
			name:  "project wide without channels",
			event: WebhookEventInput{Type: models.EventIssueCreation},
			want:  true,
		},
		{
			name:  "project wide with channels",
			event: WebhookEventInput{Type: models.EventIssueStatusChange, ChannelIDs: []uuid.UUID{web.ID}},
			want:  false,
		},
		{
			name:  "unknown type",
			event: WebhookEventInput{Type: "FEEDBACK_DELETION"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := ws.ValidateEvent(project.ID, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, valid)
		})
	}
}

func TestCreateWebhook(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")
	mobile := createChannel(t, db, project, "mobile")

	ws := NewWebhookService(db, testConfig())

	token := "s3cret"
	created, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Token:     &token,
		Events: []WebhookEventInput{
			{Type: models.EventIssueCreation},
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{mobile.ID, web.ID}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.WebhookStatusActive, created.Status)
	require.Len(t, created.Events, 2)

	// events come back in creation order with their channel sets
	assert.Equal(t, models.EventIssueCreation, created.Events[0].Type)
	assert.Empty(t, created.Events[0].Channels)
	assert.Equal(t, models.EventFeedbackCreation, created.Events[1].Type)
	require.Len(t, created.Events[1].Channels, 2)

	ids := []uuid.UUID{created.Events[1].Channels[0].ID, created.Events[1].Channels[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{mobile.ID, web.ID}, ids)
}

func TestCreateWebhookConflicts(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")

	ws := NewWebhookService(db, testConfig())

	_, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	require.NoError(t, err)

	// same name
	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/elsewhere",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	assert.True(t, errors.Is(err, helpers.ErrConflict))

	// same url
	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "teams",
		URL:       "https://hooks.example.com/slack",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	assert.True(t, errors.Is(err, helpers.ErrConflict))

	// same name in another project is fine
	other := createProject(t, db, "other")
	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: other.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	assert.NoError(t, err)
}

func TestCreateWebhookRejectsInvalidEvents(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")

	ws := NewWebhookService(db, testConfig())

	// one valid event, one invalid: nothing may be persisted
	_, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID}},
			{Type: models.EventIssueCreation, ChannelIDs: []uuid.UUID{web.ID}},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, helpers.ErrValidation))

	var webhooks, events int64
	require.NoError(t, db.Model(&models.Webhook{}).Count(&webhooks).Error)
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Zero(t, webhooks)
	assert.Zero(t, events)
}

func TestGetWebhookAbsentIsEmpty(t *testing.T) {
	db := newTestDB(t)
	ws := NewWebhookService(db, testConfig())

	webhooks, err := ws.GetWebhook(uuid.NewV4())
	require.NoError(t, err)
	assert.Empty(t, webhooks)
}

func TestUpdateWebhook(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")

	ws := NewWebhookService(db, testConfig())

	created, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	require.NoError(t, err)

	// keeping its own name and url is not a conflict
	updated, err := ws.UpdateWebhook(WebhookInput{
		ID:     created.ID,
		Name:   "slack",
		URL:    "https://hooks.example.com/slack",
		Status: models.WebhookStatusInactive,
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID}},
			{Type: models.EventIssueStatusChange},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.WebhookStatusInactive, updated.Status)
	require.Len(t, updated.Events, 2)
	assert.Equal(t, models.EventFeedbackCreation, updated.Events[0].Type)
	assert.Equal(t, models.EventIssueStatusChange, updated.Events[1].Type)

	// old events are replaced, not accumulated
	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.EqualValues(t, 2, events)
}

func TestUpdateWebhookErrors(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")

	ws := NewWebhookService(db, testConfig())

	_, err := ws.UpdateWebhook(WebhookInput{
		ID:     uuid.NewV4(),
		Name:   "ghost",
		URL:    "https://hooks.example.com/ghost",
		Events: []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	assert.True(t, errors.Is(err, helpers.ErrNotFound))

	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	require.NoError(t, err)
	teams, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "teams",
		URL:       "https://hooks.example.com/teams",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	require.NoError(t, err)

	// stealing a sibling's name is a conflict
	_, err = ws.UpdateWebhook(WebhookInput{
		ID:     teams.ID,
		Name:   "slack",
		URL:    "https://hooks.example.com/teams",
		Events: []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	assert.True(t, errors.Is(err, helpers.ErrConflict))
}

func TestDeleteWebhook(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")

	ws := NewWebhookService(db, testConfig())

	created, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "slack",
		URL:       "https://hooks.example.com/slack",
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, ws.DeleteWebhook(created.ID))

	var webhooks, events int64
	require.NoError(t, db.Model(&models.Webhook{}).Count(&webhooks).Error)
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Zero(t, webhooks)
	assert.Zero(t, events)

	// deleting again reports the absence
	err = ws.DeleteWebhook(created.ID)
	assert.True(t, errors.Is(err, helpers.ErrNotFound))
}

func TestMatchActiveWebhooks(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")
	mobile := createChannel(t, db, project, "mobile")

	ws := NewWebhookService(db, testConfig())

	scoped, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "web-only",
		URL:       "https://hooks.example.com/web",
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID}},
		},
	})
	require.NoError(t, err)

	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "issues",
		URL:       "https://hooks.example.com/issues",
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	require.NoError(t, err)

	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "paused",
		URL:       "https://hooks.example.com/paused",
		Status:    models.WebhookStatusInactive,
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID}},
		},
	})
	require.NoError(t, err)

	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "muted-event",
		URL:       "https://hooks.example.com/muted",
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, Status: models.WebhookStatusInactive, ChannelIDs: []uuid.UUID{web.ID}},
		},
	})
	require.NoError(t, err)

	matched, err := ws.MatchActiveWebhooks(project.ID, models.EventFeedbackCreation, &web.ID)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, scoped.ID, matched[0].ID)

	// a channel outside the event's set does not match
	matched, err = ws.MatchActiveWebhooks(project.ID, models.EventFeedbackCreation, &mobile.ID)
	require.NoError(t, err)
	assert.Empty(t, matched)

	matched, err = ws.MatchActiveWebhooks(project.ID, models.EventIssueCreation, nil)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "issues", matched[0].Name)
}
