package controllers

import (
	"fmt"
	"net/http"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/middlewares"
	"github.com/feedhub-io/feedhub/models"
	"github.com/feedhub-io/feedhub/services"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
)

type ApiKeyController struct {
	ApiKeyService services.ApiKeyService
	AuthService   services.AuthService
	AuditService  services.AuditService
	AuditCategory string
}

func NewApiKeyController(ks services.ApiKeyService, as services.AuthService, als services.AuditService) ApiKeyController {
	return ApiKeyController{
		ApiKeyService: ks,
		AuthService:   as,
		AuditService:  als,
		AuditCategory: "apikeys",
	}
}

func (kc *ApiKeyController) SetApiKeyRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(kc.AuthService, config.JWT))

	r.Use(middlewares.AuthorizationMiddleware(kc.AuthService, "apikeys", "write"))
	{
		r.GET("", kc.ListApiKeys)
		r.POST("", kc.CreateApiKey)
		r.DELETE("/:id", kc.RevokeApiKey)
	}
}

// ListApiKeys godoc
//
//	@Summary		List api keys
//	@Description	List the api keys of a project, hashed values are never returned
//	@Tags			apikeys
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{array}		models.ApiKey
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/apikeys [get]
//	@Security		Bearer
func (kc *ApiKeyController) ListApiKeys(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apiKeys, err := kc.ApiKeyService.ListApiKeys(projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(apiKeys)))
	if len(apiKeys) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, apiKeys)
}

// CreateApiKey godoc
//
//	@Summary		Create an api key
//	@Description	Mint a project api key, the clear value is returned only once
//	@Tags			apikeys
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string			true	"Project ID"
//	@Param			key	body		models.ApiKey	true	"Key description"
//	@Success		201	{object}	models.ApiKey
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/apikeys [post]
//	@Security		Bearer
func (kc *ApiKeyController) CreateApiKey(ctx *gin.Context) {
	var input models.ApiKey
	audit := kc.AuditService.InitialiseAuditLog(ctx, "create", kc.AuditCategory, "*")

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		kc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		kc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apiKey, err := kc.ApiKeyService.CreateApiKey(projectID, input.Description)
	if err != nil {
		kc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}
	audit.EventTarget = apiKey.ID.String()

	audit.Status = "success"
	kc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, apiKey)
}

// RevokeApiKey godoc
//
//	@Summary		Revoke an api key
//	@Description	Revoke a project api key by id
//	@Tags			apikeys
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Api key ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/apikeys/{id} [delete]
//	@Security		Bearer
func (kc *ApiKeyController) RevokeApiKey(ctx *gin.Context) {
	audit := kc.AuditService.InitialiseAuditLog(ctx, "revoke", kc.AuditCategory, ctx.Param("id"))

	apiKeyID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		kc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := kc.ApiKeyService.RevokeApiKey(apiKeyID); err != nil {
		kc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	kc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "api key revoked successfully"})
}
