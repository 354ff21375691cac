package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/events"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type IssueService interface {
	ListIssues(uuid.UUID) ([]models.Issue, error)
	GetIssue(uuid.UUID) (models.Issue, error)
	CreateIssue(models.Issue) (models.Issue, error)
	UpdateIssue(models.Issue) (models.Issue, error)
	UpdateIssueStatus(uuid.UUID, string) (models.Issue, error)
	DeleteIssue(uuid.UUID) error
}

type IssueServiceImpl struct {
	db     *gorm.DB
	config config.Config
	bus    *events.Bus
}

func NewIssueService(database *gorm.DB, config config.Config, bus *events.Bus) IssueService {
	return &IssueServiceImpl{
		db:     database,
		config: config,
		bus:    bus,
	}
}

func (i *IssueServiceImpl) ListIssues(projectID uuid.UUID) ([]models.Issue, error) {
	var issues []models.Issue
	res := i.db.Where("project_id = ?", projectID).Find(&issues)
	if res.Error != nil {
		return issues, res.Error
	}

	return issues, nil
}

func (i *IssueServiceImpl) GetIssue(id uuid.UUID) (models.Issue, error) {
	var issue models.Issue
	res := i.db.Where("issue_id = ?", id).Find(&issue)
	if res.Error != nil {
		return models.Issue{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Issue{}, errors.WrapPrefix(helpers.ErrNotFound, "issue "+id.String(), 0)
	}

	return issue, nil
}

// CreateIssue persists the issue and raises ISSUE_CREATION.
func (i *IssueServiceImpl) CreateIssue(issue models.Issue) (models.Issue, error) {
	var count int64
	res := i.db.Model(&models.Issue{}).
		Where("project_id = ? AND name = ?", issue.ProjectID, issue.Name).
		Count(&count)
	if res.Error != nil {
		return models.Issue{}, res.Error
	}
	if count > 0 {
		return models.Issue{}, errors.WrapPrefix(helpers.ErrConflict, "issue "+issue.Name, 0)
	}

	if issue.Status == "" {
		issue.Status = models.IssueStatusInit
	}
	if !models.ValidIssueStatus(issue.Status) {
		return models.Issue{}, errors.WrapPrefix(helpers.ErrValidation, "unknown issue status "+issue.Status, 0)
	}

	res = i.db.Create(&issue)
	if res.Error != nil {
		return models.Issue{}, res.Error
	}

	i.bus.Publish(models.EventIssueCreation, events.IssueCreated{IssueID: issue.ID})

	return issue, nil
}

func (i *IssueServiceImpl) UpdateIssue(issue models.Issue) (models.Issue, error) {
	existing, err := i.GetIssue(issue.ID)
	if err != nil {
		return models.Issue{}, err
	}

	var count int64
	res := i.db.Model(&models.Issue{}).
		Where("project_id = ? AND issue_id <> ? AND name = ?", existing.ProjectID, existing.ID, issue.Name).
		Count(&count)
	if res.Error != nil {
		return models.Issue{}, res.Error
	}
	if count > 0 {
		return models.Issue{}, errors.WrapPrefix(helpers.ErrConflict, "issue "+issue.Name, 0)
	}

	res = i.db.Model(&models.Issue{}).Where("issue_id = ?", existing.ID).
		Updates(map[string]interface{}{
			"name":              issue.Name,
			"description":       issue.Description,
			"category_id":       issue.CategoryID,
			"external_issue_id": issue.ExternalIssueID,
		})
	if res.Error != nil {
		return models.Issue{}, res.Error
	}

	return i.GetIssue(existing.ID)
}

// UpdateIssueStatus moves the issue to a new status and raises
// ISSUE_STATUS_CHANGE carrying the previous one.
func (i *IssueServiceImpl) UpdateIssueStatus(id uuid.UUID, status string) (models.Issue, error) {
	if !models.ValidIssueStatus(status) {
		return models.Issue{}, errors.WrapPrefix(helpers.ErrValidation, "unknown issue status "+status, 0)
	}

	issue, err := i.GetIssue(id)
	if err != nil {
		return models.Issue{}, err
	}

	previous := issue.Status
	res := i.db.Model(&models.Issue{}).Where("issue_id = ?", issue.ID).Update("status", status)
	if res.Error != nil {
		return models.Issue{}, res.Error
	}

	if previous != status {
		i.bus.Publish(models.EventIssueStatusChange, events.IssueStatusChanged{
			IssueID:        issue.ID,
			PreviousStatus: previous,
		})
	}

	return i.GetIssue(issue.ID)
}

func (i *IssueServiceImpl) DeleteIssue(id uuid.UUID) error {
	issue, err := i.GetIssue(id)
	if err != nil {
		return err
	}
	return i.db.Unscoped().Delete(&issue).Error
}
