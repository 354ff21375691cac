package controllers

import (
	"fmt"
	"net/http"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/middlewares"
	"github.com/feedhub-io/feedhub/services"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
)

type WebhookController struct {
	WebhookService services.WebhookService
	AuthService    services.AuthService
	AuditService   services.AuditService
	AuditCategory  string
}

func NewWebhookController(ws services.WebhookService, as services.AuthService, als services.AuditService) WebhookController {
	return WebhookController{
		WebhookService: ws,
		AuthService:    as,
		AuditService:   als,
		AuditCategory:  "webhooks",
	}
}

func (wc *WebhookController) SetWebhookRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(wc.AuthService, config.JWT))

	r.Use(middlewares.AuthorizationMiddleware(wc.AuthService, "webhooks", "read"))
	{
		r.GET("", wc.ListWebhooks)
		r.GET("/:id", wc.GetWebhook)
	}

	r.Use(middlewares.AuthorizationMiddleware(wc.AuthService, "webhooks", "write"))
	{
		r.POST("", wc.CreateWebhook)
		r.PUT("/:id", wc.UpdateWebhook)
		r.DELETE("/:id", wc.DeleteWebhook)
	}
}

// ListWebhooks godoc
//
//	@Summary		List webhooks
//	@Description	List the webhooks of a project with their events
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{array}		models.Webhook
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/webhooks [get]
//	@Security		Bearer
func (wc *WebhookController) ListWebhooks(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	webhooks, err := wc.WebhookService.ListWebhooks(projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(webhooks)))
	if len(webhooks) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, webhooks)
}

// GetWebhook godoc
//
//	@Summary		Get a webhook
//	@Description	Get a webhook by id, answers an array of zero or one
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Webhook ID"
//	@Success		200	{array}		models.Webhook
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/webhooks/{id} [get]
//	@Security		Bearer
func (wc *WebhookController) GetWebhook(ctx *gin.Context) {
	webhookID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	webhooks, err := wc.WebhookService.GetWebhook(webhookID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// an unknown id is an empty array, not an error
	if len(webhooks) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, webhooks)
}

// CreateWebhook godoc
//
//	@Summary		Create a webhook
//	@Description	Register a webhook with its event subscriptions
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string					true	"Project ID"
//	@Param			webhook	body		services.WebhookInput	true	"New webhook"
//	@Success		201		{object}	models.Webhook
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/webhooks [post]
//	@Security		Bearer
func (wc *WebhookController) CreateWebhook(ctx *gin.Context) {
	var input services.WebhookInput
	audit := wc.AuditService.InitialiseAuditLog(ctx, "create", wc.AuditCategory, "*")

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ProjectID = projectID
	audit.EventTarget = input.Name

	webhook, err := wc.WebhookService.CreateWebhook(input)
	if err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	wc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, webhook)
}

// UpdateWebhook godoc
//
//	@Summary		Update a webhook
//	@Description	Replace a webhook and its whole events collection
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string					true	"Project ID"
//	@Param			id		path		string					true	"Webhook ID"
//	@Param			webhook	body		services.WebhookInput	true	"Updated webhook"
//	@Success		200		{object}	models.Webhook
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/webhooks/{id} [put]
//	@Security		Bearer
func (wc *WebhookController) UpdateWebhook(ctx *gin.Context) {
	var input services.WebhookInput
	audit := wc.AuditService.InitialiseAuditLog(ctx, "update", wc.AuditCategory, ctx.Param("id"))

	webhookID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = webhookID

	webhook, err := wc.WebhookService.UpdateWebhook(input)
	if err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	wc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, webhook)
}

// DeleteWebhook godoc
//
//	@Summary		Delete a webhook
//	@Description	Delete a webhook and its events
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Webhook ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/webhooks/{id} [delete]
//	@Security		Bearer
func (wc *WebhookController) DeleteWebhook(ctx *gin.Context) {
	audit := wc.AuditService.InitialiseAuditLog(ctx, "delete", wc.AuditCategory, ctx.Param("id"))

	webhookID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := wc.WebhookService.DeleteWebhook(webhookID); err != nil {
		wc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	wc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "webhook deleted successfully"})
}
