package events

import (
	uuid "github.com/satori/go.uuid"
)

// Payloads carry ids only, handlers reload the entity with whatever
// relations they need.

type FeedbackCreated struct {
	FeedbackID uuid.UUID
}

type IssueCreated struct {
	IssueID uuid.UUID
}

type IssueAdded struct {
	FeedbackID uuid.UUID
	IssueID    uuid.UUID
}

type IssueStatusChanged struct {
	IssueID        uuid.UUID
	PreviousStatus string
}
