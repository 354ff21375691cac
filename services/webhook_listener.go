package services

import (
	"sync"

	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

// WebhookListener turns domain events into outbound webhook calls. Each
// event is one independent fan-out episode: load the triggering entity,
// match the project's active webhooks, post to each one concurrently.
// A missing triggering entity is a hard not-found error, the episode is
// dropped and logged by the bus.
type WebhookListener struct {
	db         *gorm.DB
	webhooks   WebhookService
	dispatcher *WebhookDispatcher
	inflight   sync.WaitGroup
}

func NewWebhookListener(database *gorm.DB, ws WebhookService, dispatcher *WebhookDispatcher) *WebhookListener {
	return &WebhookListener{
		db:         database,
		webhooks:   ws,
		dispatcher: dispatcher,
	}
}

func (l *WebhookListener) Register(bus *events.Bus) {
	bus.Subscribe(models.EventFeedbackCreation, func(p interface{}) error {
		payload, ok := p.(events.FeedbackCreated)
		if !ok {
			return errors.Errorf("unexpected payload %T", p)
		}
		return l.OnFeedbackCreated(payload)
	})
	bus.Subscribe(models.EventIssueCreation, func(p interface{}) error {
		payload, ok := p.(events.IssueCreated)
		if !ok {
			return errors.Errorf("unexpected payload %T", p)
		}
		return l.OnIssueCreated(payload)
	})
	bus.Subscribe(models.EventIssueAddition, func(p interface{}) error {
		payload, ok := p.(events.IssueAdded)
		if !ok {
			return errors.Errorf("unexpected payload %T", p)
		}
		return l.OnIssueAdded(payload)
	})
	bus.Subscribe(models.EventIssueStatusChange, func(p interface{}) error {
		payload, ok := p.(events.IssueStatusChanged)
		if !ok {
			return errors.Errorf("unexpected payload %T", p)
		}
		return l.OnIssueStatusChanged(payload)
	})
}

func (l *WebhookListener) OnFeedbackCreated(event events.FeedbackCreated) error {
	feedback, err := l.loadFeedback(event.FeedbackID)
	if err != nil {
		return err
	}

	webhooks, err := l.webhooks.MatchActiveWebhooks(
		feedback.Channel.ProjectID, models.EventFeedbackCreation, &feedback.ChannelID)
	if err != nil {
		return err
	}

	l.fanOut(webhooks, models.EventFeedbackCreation, l.feedbackData(feedback, nil))
	return nil
}

func (l *WebhookListener) OnIssueCreated(event events.IssueCreated) error {
	issue, err := l.loadIssue(event.IssueID)
	if err != nil {
		return err
	}

	webhooks, err := l.webhooks.MatchActiveWebhooks(issue.ProjectID, models.EventIssueCreation, nil)
	if err != nil {
		return err
	}

	l.fanOut(webhooks, models.EventIssueCreation, l.issueData(issue, ""))
	return nil
}

func (l *WebhookListener) OnIssueAdded(event events.IssueAdded) error {
	feedback, err := l.loadFeedback(event.FeedbackID)
	if err != nil {
		return err
	}
	issue, err := l.loadIssue(event.IssueID)
	if err != nil {
		return err
	}

	webhooks, err := l.webhooks.MatchActiveWebhooks(
		feedback.Channel.ProjectID, models.EventIssueAddition, &feedback.ChannelID)
	if err != nil {
		return err
	}

	l.fanOut(webhooks, models.EventIssueAddition, l.feedbackData(feedback, &issue))
	return nil
}

func (l *WebhookListener) OnIssueStatusChanged(event events.IssueStatusChanged) error {
	issue, err := l.loadIssue(event.IssueID)
	if err != nil {
		return err
	}

	webhooks, err := l.webhooks.MatchActiveWebhooks(issue.ProjectID, models.EventIssueStatusChange, nil)
	if err != nil {
		return err
	}

	l.fanOut(webhooks, models.EventIssueStatusChange, l.issueData(issue, event.PreviousStatus))
	return nil
}

// Drain blocks until every dispatch spawned so far has finished.
func (l *WebhookListener) Drain() {
	l.inflight.Wait()
}

// fanOut posts to every matched webhook concurrently, each delivery
// retried on its own. No ordering between destinations.
func (l *WebhookListener) fanOut(webhooks []models.Webhook, eventType string, data interface{}) {
	for _, webhook := range webhooks {
		webhook := webhook
		l.inflight.Add(1)
		go func() {
			defer l.inflight.Done()
			l.dispatcher.Dispatch(webhook, eventType, data)
		}()
	}
}

func (l *WebhookListener) loadFeedback(id uuid.UUID) (models.Feedback, error) {
	var feedback models.Feedback
	res := l.db.Preload("Channel").Preload("Issues").
		Where("feedback_id = ?", id).Find(&feedback)
	if res.Error != nil {
		return models.Feedback{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Feedback{}, errors.WrapPrefix(helpers.ErrNotFound, "feedback "+id.String(), 0)
	}
	return feedback, nil
}

func (l *WebhookListener) loadIssue(id uuid.UUID) (models.Issue, error) {
	var issue models.Issue
	res := l.db.Preload("Project").Where("issue_id = ?", id).Find(&issue)
	if res.Error != nil {
		return models.Issue{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Issue{}, errors.WrapPrefix(helpers.ErrNotFound, "issue "+id.String(), 0)
	}
	return issue, nil
}

// feedbackData is the payload for the feedback-scoped event types:
// feedback snapshot with its issues plus channel/project identifiers,
// and the freshly attached issue for ISSUE_ADDITION.
func (l *WebhookListener) feedbackData(feedback models.Feedback, addedIssue *models.Issue) map[string]interface{} {
	data := map[string]interface{}{
		"feedback": map[string]interface{}{
			"id":         feedback.ID,
			"data":       feedback.Data,
			"issues":     feedback.Issues,
			"created_at": feedback.CreatedAt,
		},
		"channel": map[string]interface{}{
			"id":   feedback.ChannelID,
			"name": feedback.Channel.Name,
		},
		"project": map[string]interface{}{
			"id": feedback.Channel.ProjectID,
		},
	}
	if addedIssue != nil {
		data["addedIssue"] = addedIssue
	}
	return data
}

// issueData is the payload for the project-wide event types: issue
// snapshot plus project identifiers, and the previous status for
// ISSUE_STATUS_CHANGE.
func (l *WebhookListener) issueData(issue models.Issue, previousStatus string) map[string]interface{} {
	data := map[string]interface{}{
		"issue": map[string]interface{}{
			"id":          issue.ID,
			"name":        issue.Name,
			"description": issue.Description,
			"status":      issue.Status,
			"created_at":  issue.CreatedAt,
		},
		"project": map[string]interface{}{
			"id":   issue.ProjectID,
			"name": issue.Project.Name,
		},
	}
	if previousStatus != "" {
		data["previousStatus"] = previousStatus
	}
	return data
}
