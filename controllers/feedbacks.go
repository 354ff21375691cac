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

type FeedbackController struct {
	FeedbackService services.FeedbackService
	AuthService     services.AuthService
	AuditService    services.AuditService
	AuditCategory   string
}

func NewFeedbackController(fs services.FeedbackService, as services.AuthService, als services.AuditService) FeedbackController {
	return FeedbackController{
		FeedbackService: fs,
		AuthService:     as,
		AuditService:    als,
		AuditCategory:   "feedbacks",
	}
}

// SetFeedbackRoutes wires the channel-scoped intake routes, the
// creation route also accepts project API keys.
func (fc *FeedbackController) SetFeedbackRoutes(rg *gin.RouterGroup, config config.Config) {
	// the write group stands alone so api keys never meet a read check
	w := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(fc.AuthService, config.JWT),
		middlewares.AuthorizationMiddleware(fc.AuthService, "feedbacks", "write"))
	{
		w.POST("/channels/:cid/feedbacks", fc.CreateFeedback)
		w.POST("/feedbacks/:fid/issues/:iid", fc.AddIssue)
		w.DELETE("/feedbacks/:fid/issues/:iid", fc.RemoveIssue)
		w.DELETE("/feedbacks/:fid", fc.DeleteFeedback)
	}

	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(fc.AuthService, config.JWT),
		middlewares.AuthorizationMiddleware(fc.AuthService, "feedbacks", "read"))
	{
		r.GET("/channels/:cid/feedbacks", fc.ListFeedbacks)
		r.GET("/feedbacks/:fid", fc.GetFeedback)
	}
}

// ListFeedbacks godoc
//
//	@Summary		List feedbacks
//	@Description	List the feedbacks of a channel
//	@Tags			feedbacks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			cid	path		string	true	"Channel ID"
//	@Success		200	{array}		models.Feedback
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels/{cid}/feedbacks [get]
//	@Security		Bearer
func (fc *FeedbackController) ListFeedbacks(ctx *gin.Context) {
	channelID, err := uuid.FromString(ctx.Param("cid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedbacks, err := fc.FeedbackService.ListFeedbacks(channelID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(feedbacks)))
	if len(feedbacks) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, feedbacks)
}

// GetFeedback godoc
//
//	@Summary		Get a feedback
//	@Description	Get a feedback by id with its issues
//	@Tags			feedbacks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			fid	path		string	true	"Feedback ID"
//	@Success		200	{object}	models.Feedback
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/feedbacks/{fid} [get]
//	@Security		Bearer
func (fc *FeedbackController) GetFeedback(ctx *gin.Context) {
	feedbackID, err := uuid.FromString(ctx.Param("fid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := fc.FeedbackService.GetFeedback(feedbackID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, feedback)
}

// CreateFeedback godoc
//
//	@Summary		Submit feedback
//	@Description	Submit a feedback body to a channel, validated against the channel schema
//	@Tags			feedbacks
//	@Accept			json
//	@Produce		json
//	@Param			pid			path		string			true	"Project ID"
//	@Param			cid			path		string			true	"Channel ID"
//	@Param			feedback	body		models.JSONMap	true	"Feedback body"
//	@Success		201			{object}	models.Feedback
//	@Failure		400			{object}	helpers.HTTPError
//	@Failure		401			{object}	helpers.HTTPError
//	@Failure		500			{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/channels/{cid}/feedbacks [post]
//	@Security		Bearer
func (fc *FeedbackController) CreateFeedback(ctx *gin.Context) {
	var data models.JSONMap
	audit := fc.AuditService.InitialiseAuditLog(ctx, "create", fc.AuditCategory, ctx.Param("cid"))

	channelID, err := uuid.FromString(ctx.Param("cid"))
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&data); err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := fc.FeedbackService.CreateFeedback(channelID, data)
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	fc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, feedback)
}

// AddIssue godoc
//
//	@Summary		Attach an issue
//	@Description	Attach an issue of the same project to a feedback
//	@Tags			feedbacks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			fid	path		string	true	"Feedback ID"
//	@Param			iid	path		string	true	"Issue ID"
//	@Success		200	{object}	models.Feedback
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/feedbacks/{fid}/issues/{iid} [post]
//	@Security		Bearer
func (fc *FeedbackController) AddIssue(ctx *gin.Context) {
	audit := fc.AuditService.InitialiseAuditLog(ctx, "attach_issue", fc.AuditCategory, ctx.Param("fid"))

	feedbackID, err := uuid.FromString(ctx.Param("fid"))
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issueID, err := uuid.FromString(ctx.Param("iid"))
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := fc.FeedbackService.AddIssue(feedbackID, issueID)
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	fc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, feedback)
}

// RemoveIssue godoc
//
//	@Summary		Detach an issue
//	@Description	Detach an issue from a feedback
//	@Tags			feedbacks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			fid	path		string	true	"Feedback ID"
//	@Param			iid	path		string	true	"Issue ID"
//	@Success		200	{object}	models.Feedback
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/feedbacks/{fid}/issues/{iid} [delete]
//	@Security		Bearer
func (fc *FeedbackController) RemoveIssue(ctx *gin.Context) {
	audit := fc.AuditService.InitialiseAuditLog(ctx, "detach_issue", fc.AuditCategory, ctx.Param("fid"))

	feedbackID, err := uuid.FromString(ctx.Param("fid"))
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issueID, err := uuid.FromString(ctx.Param("iid"))
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := fc.FeedbackService.RemoveIssue(feedbackID, issueID)
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	fc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, feedback)
}

// DeleteFeedback godoc
//
//	@Summary		Delete a feedback
//	@Description	Delete a feedback by id
//	@Tags			feedbacks
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			fid	path		string	true	"Feedback ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/feedbacks/{fid} [delete]
//	@Security		Bearer
func (fc *FeedbackController) DeleteFeedback(ctx *gin.Context) {
	audit := fc.AuditService.InitialiseAuditLog(ctx, "delete", fc.AuditCategory, ctx.Param("fid"))

	feedbackID, err := uuid.FromString(ctx.Param("fid"))
	if err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := fc.FeedbackService.DeleteFeedback(feedbackID); err != nil {
		fc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	fc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "feedback deleted successfully"})
}
