package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"column:category_id;type:uuid" json:"category_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_category,priority:1" json:"project_id"`
	Name      string    `gorm:"uniqueIndex:idx_category,priority:2" json:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.NewV4()
	}
	return nil
}
