package services

import (
	"encoding/json"
	"log"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	"github.com/go-openapi/spec"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type FeedbackService interface {
	ListFeedbacks(uuid.UUID) ([]models.Feedback, error)
	GetFeedback(uuid.UUID) (models.Feedback, error)
	CreateFeedback(uuid.UUID, models.JSONMap) (models.Feedback, error)
	DeleteFeedback(uuid.UUID) error
	AddIssue(uuid.UUID, uuid.UUID) (models.Feedback, error)
	RemoveIssue(uuid.UUID, uuid.UUID) (models.Feedback, error)
}

type FeedbackServiceImpl struct {
	db     *gorm.DB
	config config.Config
	bus    *events.Bus
}

func NewFeedbackService(database *gorm.DB, config config.Config, bus *events.Bus) FeedbackService {
	return &FeedbackServiceImpl{
		db:     database,
		config: config,
		bus:    bus,
	}
}

func (f *FeedbackServiceImpl) ListFeedbacks(channelID uuid.UUID) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	res := f.db.Preload("Issues").Where("channel_id = ?", channelID).Find(&feedbacks)
	if res.Error != nil {
		return feedbacks, res.Error
	}

	return feedbacks, nil
}

func (f *FeedbackServiceImpl) GetFeedback(id uuid.UUID) (models.Feedback, error) {
	var feedback models.Feedback
	res := f.db.Preload("Channel").Preload("Issues").Where("feedback_id = ?", id).Find(&feedback)
	if res.Error != nil {
		return models.Feedback{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Feedback{}, errors.WrapPrefix(helpers.ErrNotFound, "feedback "+id.String(), 0)
	}

	return feedback, nil
}

// CreateFeedback validates the body against the channel's fields schema
// when one is set, persists it and raises FEEDBACK_CREATION on the bus.
// The caller gets the stored feedback back before any webhook fires.
func (f *FeedbackServiceImpl) CreateFeedback(channelID uuid.UUID, data models.JSONMap) (models.Feedback, error) {
	var channel models.Channel
	res := f.db.Where("channel_id = ?", channelID).Find(&channel)
	if res.Error != nil {
		return models.Feedback{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Feedback{}, errors.WrapPrefix(helpers.ErrNotFound, "channel "+channelID.String(), 0)
	}

	if channel.FieldsSchema != nil {
		schema := new(spec.Schema)
		raw, err := json.Marshal(channel.FieldsSchema)
		if err != nil {
			return models.Feedback{}, err
		}
		_ = json.Unmarshal(raw, schema)

		// strfmt.Default is the registry of recognized formats
		err = validate.AgainstSchema(schema, map[string]interface{}(data), strfmt.Default)
		if err != nil {
			log.Printf("feedback does not validate against channel schema: %v", err)
			return models.Feedback{}, errors.WrapPrefix(helpers.ErrValidation, "feedback body rejected by channel schema", 0)
		}
	}

	feedback := models.Feedback{
		ChannelID: channelID,
		Data:      data,
	}
	res = f.db.Create(&feedback)
	if res.Error != nil {
		return models.Feedback{}, res.Error
	}

	f.bus.Publish(models.EventFeedbackCreation, events.FeedbackCreated{FeedbackID: feedback.ID})

	return f.GetFeedback(feedback.ID)
}

func (f *FeedbackServiceImpl) DeleteFeedback(id uuid.UUID) error {
	feedback, err := f.GetFeedback(id)
	if err != nil {
		return err
	}

	if err := f.db.Model(&feedback).Association("Issues").Clear(); err != nil {
		return err
	}
	return f.db.Unscoped().Delete(&feedback).Error
}

// AddIssue attaches an existing issue of the same project to the
// feedback and raises ISSUE_ADDITION.
func (f *FeedbackServiceImpl) AddIssue(feedbackID uuid.UUID, issueID uuid.UUID) (models.Feedback, error) {
	feedback, err := f.GetFeedback(feedbackID)
	if err != nil {
		return models.Feedback{}, err
	}

	var issue models.Issue
	res := f.db.Where("issue_id = ?", issueID).Find(&issue)
	if res.Error != nil {
		return models.Feedback{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Feedback{}, errors.WrapPrefix(helpers.ErrNotFound, "issue "+issueID.String(), 0)
	}
	if issue.ProjectID != feedback.Channel.ProjectID {
		return models.Feedback{}, errors.WrapPrefix(helpers.ErrValidation, "issue belongs to another project", 0)
	}

	if err := f.db.Model(&feedback).Association("Issues").Append(&issue); err != nil {
		return models.Feedback{}, err
	}

	f.bus.Publish(models.EventIssueAddition, events.IssueAdded{
		FeedbackID: feedback.ID,
		IssueID:    issue.ID,
	})

	return f.GetFeedback(feedback.ID)
}

func (f *FeedbackServiceImpl) RemoveIssue(feedbackID uuid.UUID, issueID uuid.UUID) (models.Feedback, error) {
	feedback, err := f.GetFeedback(feedbackID)
	if err != nil {
		return models.Feedback{}, err
	}

	var issue models.Issue
	res := f.db.Where("issue_id = ?", issueID).Find(&issue)
	if res.Error != nil {
		return models.Feedback{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Feedback{}, errors.WrapPrefix(helpers.ErrNotFound, "issue "+issueID.String(), 0)
	}

	if err := f.db.Model(&feedback).Association("Issues").Delete(&issue); err != nil {
		return models.Feedback{}, err
	}

	return f.GetFeedback(feedback.ID)
}
