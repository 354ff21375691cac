package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

// ApiKey authenticates feedback intake on a project. Only the HMAC of
// the generated key is stored, the clear value is returned once at
// creation time.
type ApiKey struct {
	ID          uuid.UUID `gorm:"column:apikey_id;type:uuid" json:"apikey_id"`
	ProjectID   uuid.UUID `gorm:"type:uuid" json:"project_id"`
	Description string    `json:"description,omitempty"`
	Key         string    `gorm:"-" json:"key,omitempty"`
	HashedKey   string    `gorm:"uniqueIndex" json:"-"`
	Status      string    `gorm:"default:ACTIVE" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (k *ApiKey) BeforeCreate(*gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.NewV4()
	}
	return nil
}
