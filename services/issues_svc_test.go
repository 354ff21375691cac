package services

import (
	"testing"

	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIssueDefaultsAndPublishes(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")

	bus := events.NewBus()
	var published events.IssueCreated
	bus.Subscribe(models.EventIssueCreation, func(p interface{}) error {
		published = p.(events.IssueCreated)
		return nil
	})

	is := NewIssueService(db, testConfig(), bus)
	issue, err := is.CreateIssue(models.Issue{ProjectID: project.ID, Name: "crash on login"})
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusInit, issue.Status)

	bus.Drain()
	assert.Equal(t, issue.ID, published.IssueID)

	// duplicate name in the project
	_, err = is.CreateIssue(models.Issue{ProjectID: project.ID, Name: "crash on login"})
	assert.True(t, errors.Is(err, helpers.ErrConflict))

	// unknown status
	_, err = is.CreateIssue(models.Issue{ProjectID: project.ID, Name: "other", Status: "DONE"})
	assert.True(t, errors.Is(err, helpers.ErrValidation))
}

func TestUpdateIssueStatus(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")
	issue := createIssue(t, db, project, "crash on login")

	bus := events.NewBus()
	var changes []events.IssueStatusChanged
	bus.Subscribe(models.EventIssueStatusChange, func(p interface{}) error {
		changes = append(changes, p.(events.IssueStatusChanged))
		return nil
	})

	is := NewIssueService(db, testConfig(), bus)

	updated, err := is.UpdateIssueStatus(issue.ID, models.IssueStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusInProgress, updated.Status)

	bus.Drain()
	require.Len(t, changes, 1)
	assert.Equal(t, issue.ID, changes[0].IssueID)
	assert.Equal(t, models.IssueStatusInit, changes[0].PreviousStatus)

	// setting the same status again is a no-op event-wise
	_, err = is.UpdateIssueStatus(issue.ID, models.IssueStatusInProgress)
	require.NoError(t, err)
	bus.Drain()
	assert.Len(t, changes, 1)

	// unknown status is rejected
	_, err = is.UpdateIssueStatus(issue.ID, "DONE")
	assert.True(t, errors.Is(err, helpers.ErrValidation))
}
