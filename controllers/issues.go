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

type IssueController struct {
	IssueService  services.IssueService
	AuthService   services.AuthService
	AuditService  services.AuditService
	AuditCategory string
}

// IssueStatusInput is the body of the status transition endpoint.
type IssueStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func NewIssueController(is services.IssueService, as services.AuthService, als services.AuditService) IssueController {
	return IssueController{
		IssueService:  is,
		AuthService:   as,
		AuditService:  als,
		AuditCategory: "issues",
	}
}

func (ic *IssueController) SetIssueRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(ic.AuthService, config.JWT))

	r.Use(middlewares.AuthorizationMiddleware(ic.AuthService, "issues", "read"))
	{
		r.GET("", ic.ListIssues)
		r.GET("/:id", ic.GetIssue)
	}

	r.Use(middlewares.AuthorizationMiddleware(ic.AuthService, "issues", "write"))
	{
		r.POST("", ic.CreateIssue)
		r.PUT("/:id", ic.UpdateIssue)
		r.PATCH("/:id/status", ic.UpdateIssueStatus)
		r.DELETE("/:id", ic.DeleteIssue)
	}
}

// ListIssues godoc
//
//	@Summary		List issues
//	@Description	List the issues of a project
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{array}		models.Issue
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/issues [get]
//	@Security		Bearer
func (ic *IssueController) ListIssues(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issues, err := ic.IssueService.ListIssues(projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(issues)))
	if len(issues) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, issues)
}

// GetIssue godoc
//
//	@Summary		Get an issue
//	@Description	Get an issue by id
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Issue ID"
//	@Success		200	{object}	models.Issue
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/issues/{id} [get]
//	@Security		Bearer
func (ic *IssueController) GetIssue(ctx *gin.Context) {
	issueID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := ic.IssueService.GetIssue(issueID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, issue)
}

// CreateIssue godoc
//
//	@Summary		Create an issue
//	@Description	Create an issue, status defaults to INIT
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			issue	body		models.Issue	true	"New issue"
//	@Success		201		{object}	models.Issue
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/issues [post]
//	@Security		Bearer
func (ic *IssueController) CreateIssue(ctx *gin.Context) {
	var issue models.Issue
	audit := ic.AuditService.InitialiseAuditLog(ctx, "create", ic.AuditCategory, "*")

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&issue); err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issue.ProjectID = projectID
	audit.EventTarget = issue.Name

	issue, err = ic.IssueService.CreateIssue(issue)
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	ic.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, issue)
}

// UpdateIssue godoc
//
//	@Summary		Update an issue
//	@Description	Update name, description, category and external id
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			id		path		string			true	"Issue ID"
//	@Param			issue	body		models.Issue	true	"Updated issue"
//	@Success		200		{object}	models.Issue
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/issues/{id} [put]
//	@Security		Bearer
func (ic *IssueController) UpdateIssue(ctx *gin.Context) {
	var issue models.Issue
	audit := ic.AuditService.InitialiseAuditLog(ctx, "update", ic.AuditCategory, ctx.Param("id"))

	issueID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&issue); err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issue.ID = issueID

	issue, err = ic.IssueService.UpdateIssue(issue)
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	ic.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, issue)
}

// UpdateIssueStatus godoc
//
//	@Summary		Move an issue
//	@Description	Move an issue to a new status
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string				true	"Project ID"
//	@Param			id		path		string				true	"Issue ID"
//	@Param			status	body		IssueStatusInput	true	"New status"
//	@Success		200		{object}	models.Issue
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/issues/{id}/status [patch]
//	@Security		Bearer
func (ic *IssueController) UpdateIssueStatus(ctx *gin.Context) {
	var input IssueStatusInput
	audit := ic.AuditService.InitialiseAuditLog(ctx, "update_status", ic.AuditCategory, ctx.Param("id"))

	issueID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := ic.IssueService.UpdateIssueStatus(issueID, input.Status)
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	ic.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, issue)
}

// DeleteIssue godoc
//
//	@Summary		Delete an issue
//	@Description	Delete an issue by id
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Issue ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/issues/{id} [delete]
//	@Security		Bearer
func (ic *IssueController) DeleteIssue(ctx *gin.Context) {
	audit := ic.AuditService.InitialiseAuditLog(ctx, "delete", ic.AuditCategory, ctx.Param("id"))

	issueID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ic.IssueService.DeleteIssue(issueID); err != nil {
		ic.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	ic.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "issue deleted successfully"})
}
