package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id"`
	Username  string    `gorm:"uniqueIndex:idx_user,priority:2;<-:create" json:"username" binding:"required"`
	Password  string    `json:"password,omitempty" binding:"required"`
	Provider  string    `gorm:"uniqueIndex:idx_user,priority:1" json:"provider" binding:"required"`
	Builtin   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.NewV4()
	}
	return nil
}
