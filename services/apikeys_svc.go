package services

import (
	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type ApiKeyService interface {
	ListApiKeys(uuid.UUID) ([]models.ApiKey, error)
	CreateApiKey(uuid.UUID, string) (models.ApiKey, error)
	RevokeApiKey(uuid.UUID) error
	ValidateKey(string, uuid.UUID) (bool, error)
}

type ApiKeyServiceImpl struct {
	db     *gorm.DB
	config config.Config
}

func NewApiKeyService(database *gorm.DB, config config.Config) ApiKeyService {
	return &ApiKeyServiceImpl{
		db:     database,
		config: config,
	}
}

func (k *ApiKeyServiceImpl) ListApiKeys(projectID uuid.UUID) ([]models.ApiKey, error) {
	var apiKeys []models.ApiKey
	res := k.db.Where("project_id = ?", projectID).Find(&apiKeys)
	if res.Error != nil {
		return apiKeys, res.Error
	}

	return apiKeys, nil
}

// CreateApiKey mints a new project key. The clear value is present on
// the returned struct only, the table keeps its HMAC.
func (k *ApiKeyServiceImpl) CreateApiKey(projectID uuid.UUID, description string) (models.ApiKey, error) {
	key, err := helpers.GenerateApiKey()
	if err != nil {
		return models.ApiKey{}, err
	}

	apiKey := models.ApiKey{
		ProjectID:   projectID,
		Description: description,
		HashedKey:   helpers.GenerateHMAC(string(k.config.JWT.Key), key),
	}

	res := k.db.Create(&apiKey)
	if res.Error != nil {
		return models.ApiKey{}, res.Error
	}

	apiKey.Key = key
	return apiKey, nil
}

func (k *ApiKeyServiceImpl) RevokeApiKey(id uuid.UUID) error {
	var apiKey models.ApiKey
	res := k.db.Where("apikey_id = ?", id).Find(&apiKey)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.WrapPrefix(helpers.ErrNotFound, "api key "+id.String(), 0)
	}

	return k.db.Unscoped().Delete(&apiKey).Error
}

func (k *ApiKeyServiceImpl) ValidateKey(key string, projectID uuid.UUID) (bool, error) {
	hashed := helpers.GenerateHMAC(string(k.config.JWT.Key), key)

	var count int64
	res := k.db.Model(&models.ApiKey{}).
		Where("project_id = ? AND hashed_key = ? AND status = ?", projectID, hashed, "ACTIVE").
		Count(&count)
	if res.Error != nil {
		return false, res.Error
	}

	return count > 0, nil
}
