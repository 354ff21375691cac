package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

// Member binds a user to a project with a role.
type Member struct {
	ID        uuid.UUID `gorm:"column:member_id;type:uuid" json:"member_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_member,priority:1" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_member,priority:2" json:"user_id"`
	RoleID    uuid.UUID `gorm:"type:uuid" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID;references:ID" json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Member) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.NewV4()
	}
	return nil
}
