package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type Channel struct {
	ID          uuid.UUID `gorm:"column:channel_id;type:uuid" json:"channel_id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_channel,priority:1" json:"project_id"`
	Name        string    `gorm:"uniqueIndex:idx_channel,priority:2" json:"name" binding:"required"`
	Description string    `json:"description,omitempty"`
	// FieldsSchema is a swagger-style JSON schema validating the body
	// of every feedback submitted to this channel.
	FieldsSchema JSONMap   `gorm:"type:jsonb" json:"fields_schema,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Channel) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.NewV4()
	}
	return nil
}
