package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

// WebhookEventInput is one entry of the events array sent on webhook
// create/update. ChannelIDs must be non-empty and resolvable for
// channel-scoped event types, and empty otherwise.
type WebhookEventInput struct {
	Type       string      `json:"type" binding:"required"`
	Status     string      `json:"status"`
	ChannelIDs []uuid.UUID `json:"channel_ids"`
}

type WebhookInput struct {
	ID        uuid.UUID           `json:"-"`
	ProjectID uuid.UUID           `json:"-"`
	Name      string              `json:"name" binding:"required"`
	URL       string              `json:"url" binding:"required,url"`
	Token     *string             `json:"token"`
	Status    string              `json:"status"`
	Events    []WebhookEventInput `json:"events" binding:"required,min=1"`
}

type WebhookService interface {
	ValidateEvent(uuid.UUID, WebhookEventInput) (bool, error)
	CreateWebhook(WebhookInput) (models.Webhook, error)
	GetWebhook(uuid.UUID) ([]models.Webhook, error)
	ListWebhooks(uuid.UUID) ([]models.Webhook, error)
	UpdateWebhook(WebhookInput) (models.Webhook, error)
	DeleteWebhook(uuid.UUID) error
	MatchActiveWebhooks(uuid.UUID, string, *uuid.UUID) ([]models.Webhook, error)
}

type WebhookServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewWebhookService(database *gorm.DB, config config.Config) WebhookService {
	return &WebhookServiceImpl{
		db:     database,
		config: config,
	}
}

// ValidateEvent checks the event/channel correlation: channel-scoped
// types need at least one channel id and every id must belong to an
// existing channel of the project, project-wide types must carry none.
// Unknown types are invalid.
func (w *WebhookServiceImpl) ValidateEvent(projectID uuid.UUID, event WebhookEventInput) (bool, error) {
	switch {
	case models.ChannelScopedEvent(event.Type):
		if len(event.ChannelIDs) == 0 {
			return false, nil
		}
		var count int64
		res := w.db.Model(&models.Channel{}).
			Where("project_id = ? AND channel_id IN ?", projectID, event.ChannelIDs).
			Count(&count)
		if res.Error != nil {
			return false, res.Error
		}
		return count == int64(len(event.ChannelIDs)), nil
	case event.Type == models.EventIssueCreation, event.Type == models.EventIssueStatusChange:
		return len(event.ChannelIDs) == 0, nil
	}

	return false, nil
}

func (w *WebhookServiceImpl) CreateWebhook(input WebhookInput) (models.Webhook, error) {
	var count int64
	res := w.db.Model(&models.Webhook{}).
		Where("project_id = ? AND (name = ? OR url = ?)", input.ProjectID, input.Name, input.URL).
		Count(&count)
	if res.Error != nil {
		return models.Webhook{}, res.Error
	}
	if count > 0 {
		return models.Webhook{}, errors.WrapPrefix(helpers.ErrConflict, "webhook "+input.Name, 0)
	}

	if err := w.validateEvents(input.ProjectID, input.Events); err != nil {
		return models.Webhook{}, err
	}

	webhook := models.Webhook{
		ProjectID: input.ProjectID,
		Name:      input.Name,
		URL:       input.URL,
		Token:     input.Token,
		Status:    defaultStatus(input.Status),
	}

	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&webhook).Error; err != nil {
			return err
		}
		return w.createEvents(tx, webhook.ID, input.Events)
	})
	if err != nil {
		return models.Webhook{}, err
	}

	created, err := w.GetWebhook(webhook.ID)
	if err != nil || len(created) == 0 {
		return models.Webhook{}, err
	}
	return created[0], nil
}

// GetWebhook returns a slice of zero or one webhooks. An unknown id is
// an empty result, not an error, callers decide what absence means.
func (w *WebhookServiceImpl) GetWebhook(id uuid.UUID) ([]models.Webhook, error) {
	var webhooks []models.Webhook
	res := w.preloaded(w.db).Where("webhook_id = ?", id).Find(&webhooks)
	if res.Error != nil {
		return nil, res.Error
	}

	return webhooks, nil
}

func (w *WebhookServiceImpl) ListWebhooks(projectID uuid.UUID) ([]models.Webhook, error) {
	var webhooks []models.Webhook
	res := w.preloaded(w.db).Where("project_id = ?", projectID).Find(&webhooks)
	if res.Error != nil {
		return webhooks, res.Error
	}

	return webhooks, nil
}

// UpdateWebhook replaces name/url/token/status and the whole events
// collection in a single transaction.
func (w *WebhookServiceImpl) UpdateWebhook(input WebhookInput) (models.Webhook, error) {
	existing, err := w.GetWebhook(input.ID)
	if err != nil {
		return models.Webhook{}, err
	}
	if len(existing) == 0 {
		return models.Webhook{}, errors.WrapPrefix(helpers.ErrNotFound, "webhook "+input.ID.String(), 0)
	}
	webhook := existing[0]

	var count int64
	res := w.db.Model(&models.Webhook{}).
		Where("project_id = ? AND webhook_id <> ? AND (name = ? OR url = ?)",
			webhook.ProjectID, webhook.ID, input.Name, input.URL).
		Count(&count)
	if res.Error != nil {
		return models.Webhook{}, res.Error
	}
	if count > 0 {
		return models.Webhook{}, errors.WrapPrefix(helpers.ErrConflict, "webhook "+input.Name, 0)
	}

	if err := w.validateEvents(webhook.ProjectID, input.Events); err != nil {
		return models.Webhook{}, err
	}

	err = w.db.Transaction(func(tx *gorm.DB) error {
		if err := w.dropEvents(tx, webhook); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":   input.Name,
			"url":    input.URL,
			"token":  input.Token,
			"status": defaultStatus(input.Status),
		}
		if err := tx.Model(&models.Webhook{}).Where("webhook_id = ?", webhook.ID).Updates(updates).Error; err != nil {
			return err
		}
		return w.createEvents(tx, webhook.ID, input.Events)
	})
	if err != nil {
		return models.Webhook{}, err
	}

	updated, err := w.GetWebhook(webhook.ID)
	if err != nil || len(updated) == 0 {
		return models.Webhook{}, err
	}
	return updated[0], nil
}

func (w *WebhookServiceImpl) DeleteWebhook(id uuid.UUID) error {
	existing, err := w.GetWebhook(id)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return errors.WrapPrefix(helpers.ErrNotFound, "webhook "+id.String(), 0)
	}
	webhook := existing[0]

	return w.db.Transaction(func(tx *gorm.DB) error {
		if err := w.dropEvents(tx, webhook); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&webhook).Error
	})
}

// MatchActiveWebhooks finds the ACTIVE webhooks of a project holding an
// ACTIVE event of the given type. For channel-scoped types the event's
// channel set must contain channelID.
func (w *WebhookServiceImpl) MatchActiveWebhooks(projectID uuid.UUID, eventType string, channelID *uuid.UUID) ([]models.Webhook, error) {
	query := w.db.Model(&models.Webhook{}).Distinct("webhooks.*").
		Joins("JOIN webhook_events ON webhook_events.webhook_id = webhooks.webhook_id").
		Where("webhooks.project_id = ? AND webhooks.status = ?", projectID, models.WebhookStatusActive).
		Where("webhook_events.type = ? AND webhook_events.status = ?", eventType, models.WebhookStatusActive)

	if channelID != nil {
		query = query.
			Joins("JOIN webhook_event_channels ON webhook_event_channels.event_id = webhook_events.event_id").
			Where("webhook_event_channels.channel_id = ?", *channelID)
	}

	var webhooks []models.Webhook
	res := query.Find(&webhooks)
	if res.Error != nil {
		return nil, res.Error
	}

	return webhooks, nil
}

func (w *WebhookServiceImpl) validateEvents(projectID uuid.UUID, events []WebhookEventInput) error {
	if len(events) == 0 {
		return errors.WrapPrefix(helpers.ErrValidation, "webhook needs at least one event", 0)
	}
	for _, event := range events {
		valid, err := w.ValidateEvent(projectID, event)
		if err != nil {
			return err
		}
		if !valid {
			return errors.WrapPrefix(helpers.ErrValidation, "invalid webhook event and channels", 0)
		}
	}
	return nil
}

func (w *WebhookServiceImpl) createEvents(tx *gorm.DB, webhookID uuid.UUID, events []WebhookEventInput) error {
	for i, input := range events {
		event := models.WebhookEvent{
			WebhookID: webhookID,
			Type:      input.Type,
			Status:    defaultStatus(input.Status),
			Sequence:  i,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		if len(input.ChannelIDs) == 0 {
			continue
		}
		var channels []models.Channel
		if err := tx.Where("channel_id IN ?", input.ChannelIDs).Find(&channels).Error; err != nil {
			return err
		}
		if err := tx.Model(&event).Association("Channels").Append(&channels); err != nil {
			return err
		}
	}
	return nil
}

// dropEvents clears the channel associations and removes the events of
// a webhook. Must run inside the caller's transaction.
func (w *WebhookServiceImpl) dropEvents(tx *gorm.DB, webhook models.Webhook) error {
	for i := range webhook.Events {
		if err := tx.Model(&webhook.Events[i]).Association("Channels").Clear(); err != nil {
			return err
		}
	}
	return tx.Where("webhook_id = ?", webhook.ID).Unscoped().Delete(&models.WebhookEvent{}).Error
}

func (w *WebhookServiceImpl) preloaded(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("webhook_events.sequence")
		}).
		Preload("Events.Channels")
}

func defaultStatus(status string) string {
	if status == "" {
		return models.WebhookStatusActive
	}
	return status
}
