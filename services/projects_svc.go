package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type ProjectService interface {
	ListProjects() ([]models.Project, error)
	GetProject(uuid.UUID) (models.Project, error)
	CreateProject(models.Project) (models.Project, error)
	UpdateProject(models.Project) (models.Project, error)
	DeleteProject(uuid.UUID) error
}

type ProjectServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewProjectService(database *gorm.DB, config config.Config) ProjectService {
	return &ProjectServiceImpl{
		db:     database,
		config: config,
	}
}

func (p *ProjectServiceImpl) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	res := p.db.Find(&projects)
	if res.Error != nil {
		return projects, res.Error
	}

	return projects, nil
}

func (p *ProjectServiceImpl) GetProject(id uuid.UUID) (models.Project, error) {
	var project models.Project
	res := p.db.Where("project_id = ?", id).Find(&project)
	if res.Error != nil {
		return models.Project{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Project{}, errors.WrapPrefix(helpers.ErrNotFound, "project "+id.String(), 0)
	}

	return project, nil
}

func (p *ProjectServiceImpl) CreateProject(project models.Project) (models.Project, error) {
	var count int64
	res := p.db.Model(&models.Project{}).Where("name = ?", project.Name).Count(&count)
	if res.Error != nil {
		return models.Project{}, res.Error
	}
	if count > 0 {
		return models.Project{}, errors.WrapPrefix(helpers.ErrConflict, "project "+project.Name, 0)
	}

	res = p.db.Create(&project)

	return project, res.Error
}

func (p *ProjectServiceImpl) UpdateProject(project models.Project) (models.Project, error) {
	if _, err := p.GetProject(project.ID); err != nil {
		return models.Project{}, err
	}

	res := p.db.Model(&models.Project{}).Where("project_id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"timezone":    project.Timezone,
		})
	if res.Error != nil {
		return models.Project{}, res.Error
	}

	return p.GetProject(project.ID)
}

func (p *ProjectServiceImpl) DeleteProject(id uuid.UUID) error {
	project, err := p.GetProject(id)
	if err != nil {
		return err
	}
	return p.db.Unscoped().Delete(&project).Error
}
