package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID        uuid.UUID `gorm:"column:feedback_id;type:uuid" json:"feedback_id"`
	ChannelID uuid.UUID `gorm:"type:uuid" json:"channel_id"`
	Channel   Channel   `gorm:"foreignKey:ChannelID;references:ID" json:"channel,omitempty"`
	Data      JSONMap   `gorm:"type:jsonb" json:"data" binding:"required"`
	Issues    []Issue   `gorm:"many2many:feedback_issues;joinForeignKey:FeedbackID;joinReferences:IssueID" json:"issues,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Feedback) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.NewV4()
	}
	return nil
}
