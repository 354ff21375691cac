package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	"github.com/go-openapi/loads"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

// specTemplate wraps a channel fields schema into a minimal Swagger 2.0
// document so it can be validated as a definition.
const specTemplate = `{
	"swagger": "2.0",
	"info": {"title": "fields", "version": "1.0"},
	"paths": {},
	"definitions": {"fields": %s}
}`

type ChannelService interface {
	ListChannels(uuid.UUID) ([]models.Channel, error)
	GetChannel(uuid.UUID) (models.Channel, error)
	CreateChannel(models.Channel) (models.Channel, error)
	UpdateChannel(models.Channel) (models.Channel, error)
	DeleteChannel(uuid.UUID) error
}

type ChannelServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewChannelService(database *gorm.DB, config config.Config) ChannelService {
	return &ChannelServiceImpl{
		db:     database,
		config: config,
	}
}

func (c *ChannelServiceImpl) ListChannels(projectID uuid.UUID) ([]models.Channel, error) {
	var channels []models.Channel
	res := c.db.Where("project_id = ?", projectID).Find(&channels)
	if res.Error != nil {
		return channels, res.Error
	}

	return channels, nil
}

func (c *ChannelServiceImpl) GetChannel(id uuid.UUID) (models.Channel, error) {
	var channel models.Channel
	res := c.db.Where("channel_id = ?", id).Find(&channel)
	if res.Error != nil {
		return models.Channel{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Channel{}, errors.WrapPrefix(helpers.ErrNotFound, "channel "+id.String(), 0)
	}

	return channel, nil
}

func (c *ChannelServiceImpl) CreateChannel(channel models.Channel) (models.Channel, error) {
	var count int64
	res := c.db.Model(&models.Channel{}).
		Where("project_id = ? AND name = ?", channel.ProjectID, channel.Name).
		Count(&count)
	if res.Error != nil {
		return models.Channel{}, res.Error
	}
	if count > 0 {
		return models.Channel{}, errors.WrapPrefix(helpers.ErrConflict, "channel "+channel.Name, 0)
	}

	if channel.FieldsSchema != nil {
		if err := ValidateFieldsSchema(channel.FieldsSchema); err != nil {
			return models.Channel{}, err
		}
	}

	res = c.db.Create(&channel)

	return channel, res.Error
}

func (c *ChannelServiceImpl) UpdateChannel(channel models.Channel) (models.Channel, error) {
	if _, err := c.GetChannel(channel.ID); err != nil {
		return models.Channel{}, err
	}

	if channel.FieldsSchema != nil {
		if err := ValidateFieldsSchema(channel.FieldsSchema); err != nil {
			return models.Channel{}, err
		}
	}

	res := c.db.Model(&models.Channel{}).Where("channel_id = ?", channel.ID).
		Updates(map[string]interface{}{
			"name":          channel.Name,
			"description":   channel.Description,
			"fields_schema": channel.FieldsSchema,
		})
	if res.Error != nil {
		return models.Channel{}, res.Error
	}

	return c.GetChannel(channel.ID)
}

func (c *ChannelServiceImpl) DeleteChannel(id uuid.UUID) error {
	channel, err := c.GetChannel(id)
	if err != nil {
		return err
	}
	return c.db.Unscoped().Delete(&channel).Error
}

// ValidateFieldsSchema rejects malformed feedback field schemas at
// channel create/update time so intake validation never loads garbage.
func ValidateFieldsSchema(schema models.JSONMap) error {
	data, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	doc, err := loads.Analyzed(json.RawMessage(fmt.Sprintf(specTemplate, data)), "2.0")
	if err != nil {
		log.Printf("error while loading fields schema: %v\n", err)
		return errors.WrapPrefix(helpers.ErrValidation, "invalid fields schema", 0)
	}

	validate.SetContinueOnErrors(true)
	err = validate.Spec(doc, strfmt.Default)
	if err != nil {
		log.Printf("fields schema has validation errors: %v\n", err)
		return errors.WrapPrefix(helpers.ErrValidation, "invalid fields schema", 0)
	}

	return nil
}
