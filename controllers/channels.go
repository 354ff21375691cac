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

type ChannelController struct {
	ChannelService services.ChannelService
	AuthService    services.AuthService
	AuditService   services.AuditService
	AuditCategory  string
}

func NewChannelController(cs services.ChannelService, as services.AuthService, als services.AuditService) ChannelController {
	return ChannelController{
		ChannelService: cs,
		AuthService:    as,
		AuditService:   als,
		AuditCategory:  "channels",
	}
}

func (cc *ChannelController) SetChannelRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(cc.AuthService, config.JWT))

	r.Use(middlewares.AuthorizationMiddleware(cc.AuthService, "channels", "read"))
	{
		r.GET("", cc.ListChannels)
		r.GET("/:cid", cc.GetChannel)
	}

	r.Use(middlewares.AuthorizationMiddleware(cc.AuthService, "channels", "write"))
	{
		r.POST("", cc.CreateChannel)
		r.PUT("/:cid", cc.UpdateChannel)
		r.DELETE("/:cid", cc.DeleteChannel)
	}
}

// ListChannels godoc
//
//	@Summary		List channels
//	@Description	List the feedback channels of a project
//	@Tags			channels
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{array}		models.Channel
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels [get]
//	@Security		Bearer
func (cc *ChannelController) ListChannels(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channels, err := cc.ChannelService.ListChannels(projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(channels)))
	if len(channels) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, channels)
}

// GetChannel godoc
//
//	@Summary		Get a channel
//	@Description	Get a channel by id
//	@Tags			channels
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			cid	path		string	true	"Channel ID"
//	@Success		200	{object}	models.Channel
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels/{cid} [get]
//	@Security		Bearer
func (cc *ChannelController) GetChannel(ctx *gin.Context) {
	channelID, err := uuid.FromString(ctx.Param("cid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel, err := cc.ChannelService.GetChannel(channelID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, channel)
}

// CreateChannel godoc
//
//	@Summary		Create a channel
//	@Description	Create a feedback channel, optionally with a fields schema
//	@Tags			channels
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			channel	body		models.Channel	true	"New channel"
//	@Success		201		{object}	models.Channel
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels [post]
//	@Security		Bearer
func (cc *ChannelController) CreateChannel(ctx *gin.Context) {
	var channel models.Channel
	audit := cc.AuditService.InitialiseAuditLog(ctx, "create", cc.AuditCategory, "*")

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&channel); err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	channel.ProjectID = projectID
	audit.EventTarget = channel.Name

	channel, err = cc.ChannelService.CreateChannel(channel)
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	cc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, channel)
}

// UpdateChannel godoc
//
//	@Summary		Update a channel
//	@Description	Update name, description and fields schema of a channel
//	@Tags			channels
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			cid		path		string			true	"Channel ID"
//	@Param			channel	body		models.Channel	true	"Updated channel"
//	@Success		200		{object}	models.Channel
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels/{cid} [put]
//	@Security		Bearer
func (cc *ChannelController) UpdateChannel(ctx *gin.Context) {
	var channel models.Channel
	audit := cc.AuditService.InitialiseAuditLog(ctx, "update", cc.AuditCategory, ctx.Param("cid"))

	channelID, err := uuid.FromString(ctx.Param("cid"))
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&channel); err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	channel.ID = channelID

	channel, err = cc.ChannelService.UpdateChannel(channel)
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	cc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, channel)
}

// DeleteChannel godoc
//
//	@Summary		Delete a channel
//	@Description	Delete a channel by id
//	@Tags			channels
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			cid	path		string	true	"Channel ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels/{cid} [delete]
//	@Security		Bearer
func (cc *ChannelController) DeleteChannel(ctx *gin.Context) {
	audit := cc.AuditService.InitialiseAuditLog(ctx, "delete", cc.AuditCategory, ctx.Param("cid"))

	channelID, err := uuid.FromString(ctx.Param("cid"))
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.ChannelService.DeleteChannel(channelID); err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	cc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "channel deleted successfully"})
}
