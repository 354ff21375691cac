package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher(maxRetries int) *WebhookDispatcher {
	return NewWebhookDispatcher(config.WebhookConfig{
		RequestTimeout: time.Second,
		MaxRedirects:   5,
		MaxRetries:     maxRetries,
		RetryDelay:     time.Millisecond,
	})
}

func TestDispatchDeliversPayload(t *testing.T) {
	var got WebhookPayload
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(WebhookTokenHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	token := "s3cret"
	webhook := models.Webhook{URL: srv.URL, Token: &token}

	testDispatcher(3).Dispatch(webhook, models.EventIssueCreation, map[string]interface{}{"issue": "x"})

	assert.Equal(t, models.EventIssueCreation, got.Event)
	assert.Equal(t, map[string]interface{}{"issue": "x"}, got.Data)
	assert.Equal(t, "s3cret", gotToken)
}

func TestDispatchOmitsTokenHeaderWhenUnset(t *testing.T) {
	headerSet := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, headerSet = r.Header[http.CanonicalHeaderKey(WebhookTokenHeader)]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	testDispatcher(0).Dispatch(models.Webhook{URL: srv.URL}, models.EventIssueCreation, nil)

	assert.False(t, headerSet)
}

func TestDispatchRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	testDispatcher(3).Dispatch(models.Webhook{URL: srv.URL}, models.EventFeedbackCreation, nil)

	// 3 failures then a success, no further attempts
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
}

func TestDispatchGivesUpAfterRetryBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	// must not panic or propagate anything
	testDispatcher(3).Dispatch(models.Webhook{URL: srv.URL}, models.EventFeedbackCreation, nil)

	assert.EqualValues(t, 4, atomic.LoadInt32(&calls))
}

func TestDispatchFailureDoesNotAffectSiblings(t *testing.T) {
	var okCalls int32
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&okCalls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer okSrv.Close()

	d := testDispatcher(1)
	d.Dispatch(models.Webhook{URL: "http://127.0.0.1:1"}, models.EventIssueCreation, nil)
	d.Dispatch(models.Webhook{URL: okSrv.URL}, models.EventIssueCreation, nil)

	assert.EqualValues(t, 1, atomic.LoadInt32(&okCalls))
}
