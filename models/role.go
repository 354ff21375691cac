package models

import (
	"time"

	"github.com/lib/pq"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

// Role carries a list of "resource:access" permission pairs, e.g.
// "webhooks:write" or "*:read". "*:write" is the project owner role.
type Role struct {
	ID          uuid.UUID      `gorm:"column:role_id;type:uuid" json:"role_id"`
	Name        string         `gorm:"uniqueIndex" json:"name" binding:"required"`
	Permissions pq.StringArray `gorm:"type:text[]" json:"permissions"`
	Builtin     bool           `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.NewV4()
	}
	return nil
}
