package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type MemberService interface {
	ListMembers(uuid.UUID) ([]models.Member, error)
	GetMember(uuid.UUID) (models.Member, error)
	CreateMember(models.Member) (models.Member, error)
	UpdateMember(models.Member) (models.Member, error)
	DeleteMember(uuid.UUID) error
	GetUserPermissions(uuid.UUID, uuid.UUID) ([]string, error)
}

type MemberServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewMemberService(database *gorm.DB, config config.Config) MemberService {
	return &MemberServiceImpl{
		db:     database,
		config: config,
	}
}

func (m *MemberServiceImpl) ListMembers(projectID uuid.UUID) ([]models.Member, error) {
	var members []models.Member
	res := m.db.Preload("Role").Where("project_id = ?", projectID).Find(&members)
	if res.Error != nil {
		return members, res.Error
	}

	return members, nil
}

func (m *MemberServiceImpl) GetMember(id uuid.UUID) (models.Member, error) {
	var member models.Member
	res := m.db.Preload("Role").Where("member_id = ?", id).Find(&member)
	if res.Error != nil {
		return models.Member{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.Member{}, errors.WrapPrefix(helpers.ErrNotFound, "member "+id.String(), 0)
	}

	return member, nil
}

func (m *MemberServiceImpl) CreateMember(member models.Member) (models.Member, error) {
	var count int64
	res := m.db.Model(&models.Member{}).
		Where("project_id = ? AND user_id = ?", member.ProjectID, member.UserID).
		Count(&count)
	if res.Error != nil {
		return models.Member{}, res.Error
	}
	if count > 0 {
		return models.Member{}, errors.WrapPrefix(helpers.ErrConflict, "member already in project", 0)
	}

	res = m.db.Create(&member)
	if res.Error != nil {
		return models.Member{}, res.Error
	}

	return m.GetMember(member.ID)
}

func (m *MemberServiceImpl) UpdateMember(member models.Member) (models.Member, error) {
	if _, err := m.GetMember(member.ID); err != nil {
		return models.Member{}, err
	}

	res := m.db.Model(&models.Member{}).Where("member_id = ?", member.ID).
		Update("role_id", member.RoleID)
	if res.Error != nil {
		return models.Member{}, res.Error
	}

	return m.GetMember(member.ID)
}

func (m *MemberServiceImpl) DeleteMember(id uuid.UUID) error {
	member, err := m.GetMember(id)
	if err != nil {
		return err
	}
	return m.db.Unscoped().Delete(&member).Error
}

// GetUserPermissions returns the permission pairs of the user's role in
// the project, empty when the user is not a member.
func (m *MemberServiceImpl) GetUserPermissions(userID uuid.UUID, projectID uuid.UUID) ([]string, error) {
	var roles []models.Role

	res := m.db.Model(&models.Role{}).Joins(
		"left join members on roles.role_id = members.role_id").Where(
		"members.user_id = ? AND members.project_id = ?", userID, projectID).Find(&roles)
	if res.Error != nil {
		return nil, res.Error
	}

	var permissions []string
	for _, role := range roles {
		permissions = append(permissions, role.Permissions...)
	}

	return permissions, nil
}
