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

type MemberController struct {
	MemberService services.MemberService
	AuthService   services.AuthService
	AuditService  services.AuditService
	AuditCategory string
}

func NewMemberController(ms services.MemberService, as services.AuthService, als services.AuditService) MemberController {
	return MemberController{
		MemberService: ms,
		AuthService:   as,
		AuditService:  als,
		AuditCategory: "members",
	}
}

func (mc *MemberController) SetMemberRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(mc.AuthService, config.JWT))

	r.Use(middlewares.AuthorizationMiddleware(mc.AuthService, "members", "read"))
	{
		r.GET("", mc.ListMembers)
		r.GET("/:id", mc.GetMember)
	}

	r.Use(middlewares.AuthorizationMiddleware(mc.AuthService, "members", "write"))
	{
		r.POST("", mc.CreateMember)
		r.PUT("/:id", mc.UpdateMember)
		r.DELETE("/:id", mc.DeleteMember)
	}
}

// ListMembers godoc
//
//	@Summary		List members
//	@Description	List the members of a project with their roles
//	@Tags			members
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{array}		models.Member
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/members [get]
//	@Security		Bearer
func (mc *MemberController) ListMembers(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	members, err := mc.MemberService.ListMembers(projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(members)))
	if len(members) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

// GetMember godoc
//
//	@Summary		Get a member
//	@Description	Get a project member by id
//	@Tags			members
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Member ID"
//	@Success		200	{object}	models.Member
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/members/{id} [get]
//	@Security		Bearer
func (mc *MemberController) GetMember(ctx *gin.Context) {
	memberID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := mc.MemberService.GetMember(memberID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// CreateMember godoc
//
//	@Summary		Add a member
//	@Description	Add a user to the project with a role
//	@Tags			members
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			member	body		models.Member	true	"New member"
//	@Success		201		{object}	models.Member
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/members [post]
//	@Security		Bearer
func (mc *MemberController) CreateMember(ctx *gin.Context) {
	var member models.Member
	audit := mc.AuditService.InitialiseAuditLog(ctx, "create", mc.AuditCategory, "*")

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&member); err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member.ProjectID = projectID
	audit.EventTarget = member.UserID.String()

	member, err = mc.MemberService.CreateMember(member)
	if err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	mc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, member)
}

// UpdateMember godoc
//
//	@Summary		Update a member
//	@Description	Change the role of a project member
//	@Tags			members
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			id		path		string			true	"Member ID"
//	@Param			member	body		models.Member	true	"Updated member"
//	@Success		200		{object}	models.Member
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/members/{id} [put]
//	@Security		Bearer
func (mc *MemberController) UpdateMember(ctx *gin.Context) {
	var member models.Member
	audit := mc.AuditService.InitialiseAuditLog(ctx, "update", mc.AuditCategory, ctx.Param("id"))

	memberID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&member); err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	member.ID = memberID

	member, err = mc.MemberService.UpdateMember(member)
	if err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	mc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, member)
}

// DeleteMember godoc
//
//	@Summary		Remove a member
//	@Description	Remove a user from the project
//	@Tags			members
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Member ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/members/{id} [delete]
//	@Security		Bearer
func (mc *MemberController) DeleteMember(ctx *gin.Context) {
	audit := mc.AuditService.InitialiseAuditLog(ctx, "delete", mc.AuditCategory, ctx.Param("id"))

	memberID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := mc.MemberService.DeleteMember(memberID); err != nil {
		mc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	mc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "member removed successfully"})
}
