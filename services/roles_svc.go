package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type RoleService interface {
	ListRoles() ([]models.Role, error)
	GetRole(uuid.UUID) (models.Role, error)
	GetRoleByName(string) (models.Role, error)
	CreateRole(models.Role) (models.Role, error)
	UpdateRole(models.Role) (models.Role, error)
	DeleteRole(uuid.UUID) error
}

type RoleServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewRoleService(database *gorm.DB, config config.Config) RoleService {
	return &RoleServiceImpl{
		db:     database,
		config: config,
	}
}

func (r *RoleServiceImpl) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	res := r.db.Find(&roles)
	if res.Error != nil {
		return roles, res.Error
	}

	return roles, nil
}

func (r *RoleServiceImpl) GetRole(id uuid.UUID) (models.Role, error) {
	var role models.Role
	res := r.db.Where("role_id = ?", id).Find(&role)
	if res.Error != nil {
		return models.Role{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Role{}, errors.WrapPrefix(helpers.ErrNotFound, "role "+id.String(), 0)
	}

	return role, nil
}

func (r *RoleServiceImpl) GetRoleByName(name string) (models.Role, error) {
	var role models.Role
	res := r.db.Where("name = ?", name).Find(&role)
	if res.Error != nil {
		return models.Role{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Role{}, errors.WrapPrefix(helpers.ErrNotFound, "role "+name, 0)
	}

	return role, nil
}

func (r *RoleServiceImpl) CreateRole(role models.Role) (models.Role, error) {
	var count int64
	res := r.db.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count)
	if res.Error != nil {
		return models.Role{}, res.Error
	}
	if count > 0 {
		return models.Role{}, errors.WrapPrefix(helpers.ErrConflict, "role "+role.Name, 0)
	}

	res = r.db.Create(&role)

	return role, res.Error
}

func (r *RoleServiceImpl) UpdateRole(role models.Role) (models.Role, error) {
	existing, err := r.GetRole(role.ID)
	if err != nil {
		return models.Role{}, err
	}
	if existing.Builtin {
		return models.Role{}, errors.WrapPrefix(helpers.ErrValidation, "builtin roles are read only", 0)
	}

	res := r.db.Model(&models.Role{}).Where("role_id = ?", role.ID).
		Updates(map[string]interface{}{
			"name":        role.Name,
			"permissions": role.Permissions,
		})
	if res.Error != nil {
		return models.Role{}, res.Error
	}

	return r.GetRole(role.ID)
}

func (r *RoleServiceImpl) DeleteRole(id uuid.UUID) error {
	role, err := r.GetRole(id)
	if err != nil {
		return err
	}
	if role.Builtin {
		return errors.WrapPrefix(helpers.ErrValidation, "builtin roles are read only", 0)
	}
	return r.db.Unscoped().Delete(&role).Error
}
