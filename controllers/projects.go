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

type ProjectController struct {
	ProjectService services.ProjectService
	MemberService  services.MemberService
	RoleService    services.RoleService
	AuthService    services.AuthService
	AuditService   services.AuditService
	AuditCategory  string
}

func NewProjectController(
	ps services.ProjectService,
	ms services.MemberService,
	rs services.RoleService,
	as services.AuthService,
	als services.AuditService,
) ProjectController {
	return ProjectController{
		ProjectService: ps,
		MemberService:  ms,
		RoleService:    rs,
		AuthService:    as,
		AuditService:   als,
		AuditCategory:  "projects",
	}
}

func (pc *ProjectController) SetProjectRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(pc.AuthService, config.JWT))

	r.GET("", pc.ListProjects)
	r.POST("", pc.CreateProject)

	r.Use(middlewares.AuthorizationMiddleware(pc.AuthService, "projects", "read"))
	{
		r.GET("/:pid", pc.GetProject)
	}

	r.Use(middlewares.AuthorizationMiddleware(pc.AuthService, "projects", "write"))
	{
		r.PUT("/:pid", pc.UpdateProject)
		r.DELETE("/:pid", pc.DeleteProject)
	}
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List all projects
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}		models.Project
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects [get]
//	@Security		Bearer
func (pc *ProjectController) ListProjects(ctx *gin.Context) {
	projects, err := pc.ProjectService.ListProjects()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(projects)))
	if len(projects) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

// GetProject godoc
//
//	@Summary		Get a project
//	@Description	Get a project by id
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{object}	models.Project
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid} [get]
//	@Security		Bearer
func (pc *ProjectController) GetProject(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := pc.ProjectService.GetProject(projectID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// CreateProject godoc
//
//	@Summary		Create a project
//	@Description	Create a project, the creator becomes its Owner
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			project	body		models.Project	true	"New project"
//	@Success		201		{object}	models.Project
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects [post]
//	@Security		Bearer
func (pc *ProjectController) CreateProject(ctx *gin.Context) {
	var project models.Project
	audit := pc.AuditService.InitialiseAuditLog(ctx, "create", pc.AuditCategory, "*")

	if err := ctx.ShouldBindJSON(&project); err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audit.EventTarget = project.Name

	project, err := pc.ProjectService.CreateProject(project)
	if err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	// the creator administers the new project
	userID := ctx.MustGet("userID").(uuid.UUID)
	if owner, err := pc.RoleService.GetRoleByName("Owner"); err == nil {
		_, err = pc.MemberService.CreateMember(models.Member{
			ProjectID: project.ID,
			UserID:    userID,
			RoleID:    owner.ID,
		})
		if err != nil {
			fmt.Println("error enrolling project owner:", err)
		}
	}

	audit.Status = "success"
	pc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, project)
}

// UpdateProject godoc
//
//	@Summary		Update a project
//	@Description	Update name, description and timezone of a project
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			pid		path		string			true	"Project ID"
//	@Param			project	body		models.Project	true	"Updated project"
//	@Success		200		{object}	models.Project
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid} [put]
//	@Security		Bearer
func (pc *ProjectController) UpdateProject(ctx *gin.Context) {
	var project models.Project
	audit := pc.AuditService.InitialiseAuditLog(ctx, "update", pc.AuditCategory, ctx.Param("pid"))

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&project); err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project.ID = projectID

	project, err = pc.ProjectService.UpdateProject(project)
	if err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	pc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, project)
}

// DeleteProject godoc
//
//	@Summary		Delete a project
//	@Description	Delete a project by id
//	@Tags			projects
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid} [delete]
//	@Security		Bearer
func (pc *ProjectController) DeleteProject(ctx *gin.Context) {
	audit := pc.AuditService.InitialiseAuditLog(ctx, "delete", pc.AuditCategory, ctx.Param("pid"))

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pc.ProjectService.DeleteProject(projectID); err != nil {
		pc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	pc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "project deleted successfully"})
}
