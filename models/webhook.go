package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

const (
	WebhookStatusActive   = "ACTIVE"
	WebhookStatusInactive = "INACTIVE"
)

// Webhook event types. FEEDBACK_CREATION and ISSUE_ADDITION are scoped
// to a set of channels, ISSUE_CREATION and ISSUE_STATUS_CHANGE fire for
// the whole project.
const (
	EventFeedbackCreation  = "FEEDBACK_CREATION"
	EventIssueCreation     = "ISSUE_CREATION"
	EventIssueAddition     = "ISSUE_ADDITION"
	EventIssueStatusChange = "ISSUE_STATUS_CHANGE"
)

type Webhook struct {
	ID        uuid.UUID      `gorm:"column:webhook_id;type:uuid" json:"webhook_id"`
	ProjectID uuid.UUID      `gorm:"type:uuid" json:"project_id"`
	Name      string         `json:"name" binding:"required"`
	URL       string         `json:"url" binding:"required,url"`
	Token     *string        `json:"token,omitempty"`
	Status    string         `gorm:"default:ACTIVE" json:"status"`
	Events    []WebhookEvent `gorm:"foreignKey:WebhookID;constraint:OnDelete:CASCADE" json:"events"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type WebhookEvent struct {
	ID        uuid.UUID `gorm:"column:event_id;type:uuid" json:"event_id"`
	WebhookID uuid.UUID `gorm:"type:uuid" json:"webhook_id"`
	Type      string    `json:"type" binding:"required"`
	Status    string    `gorm:"default:ACTIVE" json:"status"`
	// Sequence keeps the creation order of the events collection,
	// preloads are ordered by it.
	Sequence  int       `json:"-"`
	Channels  []Channel `gorm:"many2many:webhook_event_channels;joinForeignKey:EventID;joinReferences:ChannelID" json:"channels,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChannelScopedEvent reports whether the event type carries a channel
// set (see the create/update invariant in the webhook service).
func ChannelScopedEvent(eventType string) bool {
	return eventType == EventFeedbackCreation || eventType == EventIssueAddition
}

func (w *Webhook) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.NewV4()
	}
	return nil
}

func (e *WebhookEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.NewV4()
	}
	return nil
}
