package services

import (
	"log"
	"time"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type AuditService interface {
	ListAuditLogs(int) ([]models.AuditLog, error)
	CreateAudit(models.AuditLog)
	InitialiseAuditLog(*gin.Context, string, string, string) models.AuditLog
}

type AuditServiceImpl struct {
	db      *gorm.DB
	config  config.Config
	elastic helpers.ElasticSearch
}

func NewAuditService(database *gorm.DB, config config.Config, es helpers.ElasticSearch) AuditService {
	return &AuditServiceImpl{
		db:      database,
		config:  config,
		elastic: es,
	}
}

func (a *AuditServiceImpl) ListAuditLogs(num int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	res := a.db.Order("created_at desc").Limit(num).Find(&logs)
	if res.Error != nil {
		return logs, res.Error
	}

	return logs, nil
}

func (a *AuditServiceImpl) CreateAudit(auditLog models.AuditLog) {
	res := a.db.Create(&auditLog)
	if res.Error != nil {
		log.Println("Error during Audit creation: " + res.Error.Error())
	}

	helpers.CreateElasticSearchLog(
		a.elastic, time.Now(), auditLog.UserName, "",
		auditLog.EventType, auditLog.EventCategory, auditLog.EventTarget, auditLog.Status)
}

func (a *AuditServiceImpl) InitialiseAuditLog(
	ctx *gin.Context,
	eventType string,
	category string,
	target string,
) models.AuditLog {
	var userID uuid.UUID
	var username, provider string
	uid, _ := ctx.Get("userID")
	if uid != nil {
		userID = uid.(uuid.UUID)
		uname, _ := ctx.Get("username")
		prov, _ := ctx.Get("provider")

		username = uname.(string)
		provider = prov.(string)
	}

	return models.AuditLog{
		UserID:        userID,
		UserName:      username,
		Provider:      provider,
		EventType:     eventType,
		EventCategory: category,
		EventTarget:   target,
		Status:        "error", // status will be updated later if successful
	}
}
