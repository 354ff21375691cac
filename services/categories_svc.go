package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	ListCategories(uuid.UUID) ([]models.Category, error)
	GetCategory(uuid.UUID) (models.Category, error)
	CreateCategory(models.Category) (models.Category, error)
	UpdateCategory(models.Category) (models.Category, error)
	DeleteCategory(uuid.UUID) error
}

type CategoryServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewCategoryService(database *gorm.DB, config config.Config) CategoryService {
	return &CategoryServiceImpl{
		db:     database,
		config: config,
	}
}

func (c *CategoryServiceImpl) ListCategories(projectID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	res := c.db.Where("project_id = ?", projectID).Find(&categories)
	if res.Error != nil {
		return categories, res.Error
	}

	return categories, nil
}

func (c *CategoryServiceImpl) GetCategory(id uuid.UUID) (models.Category, error) {
	var category models.Category
	res := c.db.Where("category_id = ?", id).Find(&category)
	if res.Error != nil {
		return models.Category{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Category{}, errors.WrapPrefix(helpers.ErrNotFound, "category "+id.String(), 0)
	}

	return category, nil
}

func (c *CategoryServiceImpl) CreateCategory(category models.Category) (models.Category, error) {
	var count int64
	res := c.db.Model(&models.Category{}).
		Where("project_id = ? AND name = ?", category.ProjectID, category.Name).
		Count(&count)
	if res.Error != nil {
		return models.Category{}, res.Error
	}
	if count > 0 {
		return models.Category{}, errors.WrapPrefix(helpers.ErrConflict, "category "+category.Name, 0)
	}

	res = c.db.Create(&category)

	return category, res.Error
}

func (c *CategoryServiceImpl) UpdateCategory(category models.Category) (models.Category, error) {
	if _, err := c.GetCategory(category.ID); err != nil {
		return models.Category{}, err
	}

	res := c.db.Model(&models.Category{}).Where("category_id = ?", category.ID).
		Update("name", category.Name)
	if res.Error != nil {
		return models.Category{}, res.Error
	}

	return c.GetCategory(category.ID)
}

func (c *CategoryServiceImpl) DeleteCategory(id uuid.UUID) error {
	category, err := c.GetCategory(id)
	if err != nil {
		return err
	}
	return c.db.Unscoped().Delete(&category).Error
}
