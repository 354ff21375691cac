package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type receiver struct {
	srv   *httptest.Server
	calls int32
	last  WebhookPayload
}

func newReceiver(t *testing.T) *receiver {
	t.Helper()
	r := &receiver{}
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&r.calls, 1)
		require.NoError(t, json.NewDecoder(req.Body).Decode(&r.last))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(r.srv.Close)
	return r
}

func (r *receiver) count() int32 { return atomic.LoadInt32(&r.calls) }

func newTestListener(t *testing.T, db *gorm.DB) *WebhookListener {
	t.Helper()
	ws := NewWebhookService(db, testConfig())
	dispatcher := NewWebhookDispatcher(config.WebhookConfig{
		RequestTimeout: time.Second,
		MaxRedirects:   5,
		MaxRetries:     0,
		RetryDelay:     time.Millisecond,
	})
	return NewWebhookListener(db, ws, dispatcher)
}

func TestListenerFanOut(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	web := createChannel(t, db, project, "web")

	feedbackRcv := newReceiver(t)
	issueRcv := newReceiver(t)

	ws := NewWebhookService(db, testConfig())
	_, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "feedback-hook",
		URL:       feedbackRcv.srv.URL,
		Events: []WebhookEventInput{
			{Type: models.EventFeedbackCreation, ChannelIDs: []uuid.UUID{web.ID}},
		},
	})
	require.NoError(t, err)
	_, err = ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "issue-hook",
		URL:       issueRcv.srv.URL,
		Events:    []WebhookEventInput{{Type: models.EventIssueCreation}},
	})
	require.NoError(t, err)

	listener := newTestListener(t, db)

	feedback := models.Feedback{ChannelID: web.ID, Data: models.JSONMap{"text": "love it"}}
	require.NoError(t, db.Create(&feedback).Error)

	require.NoError(t, listener.OnFeedbackCreated(events.FeedbackCreated{FeedbackID: feedback.ID}))
	listener.Drain()

	// only the channel-scoped webhook fires
	assert.EqualValues(t, 1, feedbackRcv.count())
	assert.EqualValues(t, 0, issueRcv.count())
	assert.Equal(t, models.EventFeedbackCreation, feedbackRcv.last.Event)

	data, ok := feedbackRcv.last.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "feedback")
	assert.Contains(t, data, "channel")
	assert.Contains(t, data, "project")

	issue := createIssue(t, db, project, "crash on login")
	require.NoError(t, listener.OnIssueCreated(events.IssueCreated{IssueID: issue.ID}))
	listener.Drain()

	// and the project-wide one fires alone for issue creation
	assert.EqualValues(t, 1, feedbackRcv.count())
	assert.EqualValues(t, 1, issueRcv.count())
	assert.Equal(t, models.EventIssueCreation, issueRcv.last.Event)
}

func TestListenerStatusChangeCarriesPreviousStatus(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	issue := createIssue(t, db, project, "crash on login")

	rcv := newReceiver(t)
	ws := NewWebhookService(db, testConfig())
	_, err := ws.CreateWebhook(WebhookInput{
		ProjectID: project.ID,
		Name:      "status-hook",
		URL:       rcv.srv.URL,
		Events:    []WebhookEventInput{{Type: models.EventIssueStatusChange}},
	})
	require.NoError(t, err)

	listener := newTestListener(t, db)
	require.NoError(t, listener.OnIssueStatusChanged(events.IssueStatusChanged{
		IssueID:        issue.ID,
		PreviousStatus: models.IssueStatusInit,
	}))
	listener.Drain()

	require.EqualValues(t, 1, rcv.count())
	data, ok := rcv.last.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, models.IssueStatusInit, data["previousStatus"])
}

func TestListenerMissingEntity(t *testing.T) {
	db := newTestDB(t)
	listener := newTestListener(t, db)

	err := listener.OnFeedbackCreated(events.FeedbackCreated{FeedbackID: uuid.NewV4()})
	assert.True(t, errors.Is(err, helpers.ErrNotFound))

	err = listener.OnIssueCreated(events.IssueCreated{IssueID: uuid.NewV4()})
	assert.True(t, errors.Is(err, helpers.ErrNotFound))
}
