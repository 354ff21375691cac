package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	ListUsers() ([]models.User, error)
	GetUser(uuid.UUID) (models.User, error)
	CreateUser(models.User) (models.User, error)
	UpdateUser(models.User) (models.User, error)
	DeleteUser(uuid.UUID) error
	GetByUsernameAndProvider(string, string) (models.User, error)
}

type UserServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewUserService(database *gorm.DB, config config.Config) UserService {
	return &UserServiceImpl{
		db:     database,
		config: config,
	}
}

func (u *UserServiceImpl) ListUsers() ([]models.User, error) {
	var users []models.User
	res := u.db.Omit("password").Find(&users)
	if res.Error != nil {
		return users, res.Error
	}

	return users, nil
}

func (u *UserServiceImpl) GetUser(id uuid.UUID) (models.User, error) {
	var user models.User
	res := u.db.Omit("password").Where("user_id = ?", id).Find(&user)
	if res.Error != nil {
		return models.User{}, res.Error
	}

	if res.RowsAffected == 0 {
		return models.User{}, errors.WrapPrefix(helpers.ErrNotFound, "user "+id.String(), 0)
	}

	return user, nil
}

func (u *UserServiceImpl) CreateUser(user models.User) (models.User, error) {
	if user.Provider == "local" {
		password, err := HashPassword(user.Password)
		if err != nil {
			return models.User{}, err
		}
		user.Password = password
	}

	res := u.db.Create(&user)

	return user, res.Error
}

func (u *UserServiceImpl) UpdateUser(user models.User) (models.User, error) {
	password, err := HashPassword(user.Password)
	if err != nil {
		return models.User{}, err
	}

	user.Password = password
	res := u.db.Updates(user)
	if res.Error != nil {
		return models.User{}, res.Error
	}

	return u.GetUser(user.ID)
}

func (u *UserServiceImpl) DeleteUser(id uuid.UUID) error {
	user, err := u.GetUser(id)
	if err != nil {
		return err
	}
	return u.db.Unscoped().Delete(&user).Error
}

func (u *UserServiceImpl) GetByUsernameAndProvider(username string, provider string) (models.User, error) {
	var user models.User
	res := u.db.Where("username = ? AND provider = ?", username, provider).Find(&user)
	if res.Error != nil {
		return models.User{}, res.Error
	}

	if user.Username == "" {
		return models.User{}, errors.WrapPrefix(helpers.ErrNotFound, "user "+username, 0)
	}

	return user, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}
