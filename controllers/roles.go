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

type RoleController struct {
	RoleService   services.RoleService
	AuthService   services.AuthService
	AuditService  services.AuditService
	AuditCategory string
}

func NewRoleController(rs services.RoleService, as services.AuthService, als services.AuditService) RoleController {
	return RoleController{
		RoleService:   rs,
		AuthService:   as,
		AuditService:  als,
		AuditCategory: "roles",
	}
}

func (rc *RoleController) SetRoleRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(rc.AuthService, config.JWT))

	r.GET("", rc.ListRoles)
	r.GET("/:id", rc.GetRole)

	r.Use(middlewares.AuthorizationMiddleware(rc.AuthService, "roles", "write"))
	{
		r.POST("", rc.CreateRole)
		r.PUT("/:id", rc.UpdateRole)
		r.DELETE("/:id", rc.DeleteRole)
	}
}

// ListRoles godoc
//
//	@Summary		List roles
//	@Description	List all roles with their permissions
//	@Tags			roles
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}		models.Role
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/roles [get]
//	@Security		Bearer
func (rc *RoleController) ListRoles(ctx *gin.Context) {
	roles, err := rc.RoleService.ListRoles()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(roles)))
	if len(roles) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

// GetRole godoc
//
//	@Summary		Get a role
//	@Description	Get a role by id
//	@Tags			roles
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Role ID"
//	@Success		200	{object}	models.Role
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/roles/{id} [get]
//	@Security		Bearer
func (rc *RoleController) GetRole(ctx *gin.Context) {
	roleID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := rc.RoleService.GetRole(roleID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, role)
}

// CreateRole godoc
//
//	@Summary		Create a role
//	@Description	Create a role with resource:access permission pairs
//	@Tags			roles
//	@Accept			json
//	@Produce		json
//	@Param			role	body		models.Role	true	"New role"
//	@Success		201		{object}	models.Role
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/roles [post]
//	@Security		Bearer
func (rc *RoleController) CreateRole(ctx *gin.Context) {
	var role models.Role
	audit := rc.AuditService.InitialiseAuditLog(ctx, "create", rc.AuditCategory, "*")

	if err := ctx.ShouldBindJSON(&role); err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audit.EventTarget = role.Name

	role, err := rc.RoleService.CreateRole(role)
	if err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	rc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, role)
}

// UpdateRole godoc
//
//	@Summary		Update a role
//	@Description	Update name and permissions, builtin roles are read only
//	@Tags			roles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Role ID"
//	@Param			role	body		models.Role	true	"Updated role"
//	@Success		200		{object}	models.Role
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/roles/{id} [put]
//	@Security		Bearer
func (rc *RoleController) UpdateRole(ctx *gin.Context) {
	var role models.Role
	audit := rc.AuditService.InitialiseAuditLog(ctx, "update", rc.AuditCategory, ctx.Param("id"))

	roleID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&role); err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role.ID = roleID

	role, err = rc.RoleService.UpdateRole(role)
	if err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	rc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, role)
}

// DeleteRole godoc
//
//	@Summary		Delete a role
//	@Description	Delete a role by id, builtin roles are read only
//	@Tags			roles
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"Role ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/roles/{id} [delete]
//	@Security		Bearer
func (rc *RoleController) DeleteRole(ctx *gin.Context) {
	audit := rc.AuditService.InitialiseAuditLog(ctx, "delete", rc.AuditCategory, ctx.Param("id"))

	roleID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rc.RoleService.DeleteRole(roleID); err != nil {
		rc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	rc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "role deleted successfully"})
}
