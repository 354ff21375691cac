package models

import (
	"time"

	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

const (
	IssueStatusInit       = "INIT"
	IssueStatusOnReview   = "ON_REVIEW"
	IssueStatusInProgress = "IN_PROGRESS"
	IssueStatusResolved   = "RESOLVED"
	IssueStatusPending    = "PENDING"
)

type Issue struct {
	ID              uuid.UUID  `gorm:"column:issue_id;type:uuid" json:"issue_id"`
	ProjectID       uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_issue,priority:1" json:"project_id"`
	Project         Project    `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name            string     `gorm:"uniqueIndex:idx_issue,priority:2" json:"name" binding:"required"`
	Description     string     `json:"description,omitempty"`
	Status          string     `gorm:"default:INIT" json:"status"`
	CategoryID      *uuid.UUID `gorm:"type:uuid" json:"category_id,omitempty"`
	ExternalIssueID string     `json:"external_issue_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ValidIssueStatus(status string) bool {
	switch status {
	case IssueStatusInit, IssueStatusOnReview, IssueStatusInProgress,
		IssueStatusResolved, IssueStatusPending:
		return true
	}
	return false
}

func (i *Issue) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.NewV4()
	}
	return nil
}
