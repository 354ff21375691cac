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

type CategoryController struct {
	CategoryService services.CategoryService
	AuthService     services.AuthService
	AuditService    services.AuditService
	AuditCategory   string
}

func NewCategoryController(cs services.CategoryService, as services.AuthService, als services.AuditService) CategoryController {
	return CategoryController{
		CategoryService: cs,
		AuthService:     as,
		AuditService:    als,
		AuditCategory:   "categories",
	}
}

func (cc *CategoryController) SetCategoryRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(cc.AuthService, config.JWT))

	r.Use(middlewares.AuthorizationMiddleware(cc.AuthService, "categories", "read"))
	{
		r.GET("", cc.ListCategories)
		r.GET("/:id", cc.GetCategory)
	}

	r.Use(middlewares.AuthorizationMiddleware(cc.AuthService, "categories", "write"))
	{
		r.POST("", cc.CreateCategory)
		r.PUT("/:id", cc.UpdateCategory)
		r.DELETE("/:id", cc.DeleteCategory)
	}
}

// ListCategories godoc
//
//	@Summary		List categories
//	@Description	List the issue categories of a project
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Success		200	{array}		models.Category
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/categories [get]
//	@Security		Bearer
func (cc *CategoryController) ListCategories(ctx *gin.Context) {
	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := cc.CategoryService.ListCategories(projectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(categories)))
	if len(categories) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// GetCategory godoc
//
//	@Summary		Get a category
//	@Description	Get a category by id
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Category ID"
//	@Success		200	{object}	models.Category
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/categories/{id} [get]
//	@Security		Bearer
func (cc *CategoryController) GetCategory(ctx *gin.Context) {
	categoryID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := cc.CategoryService.GetCategory(categoryID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// CreateCategory godoc
//
//	@Summary		Create a category
//	@Description	Create an issue category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			pid			path		string			true	"Project ID"
//	@Param			category	body		models.Category	true	"New category"
//	@Success		201			{object}	models.Category
//	@Failure		400			{object}	helpers.HTTPError
//	@Failure		401			{object}	helpers.HTTPError
//	@Failure		500			{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/categories [post]
//	@Security		Bearer
func (cc *CategoryController) CreateCategory(ctx *gin.Context) {
	var category models.Category
	audit := cc.AuditService.InitialiseAuditLog(ctx, "create", cc.AuditCategory, "*")

	projectID, err := uuid.FromString(ctx.Param("pid"))
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&category); err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category.ProjectID = projectID
	audit.EventTarget = category.Name

	category, err = cc.CategoryService.CreateCategory(category)
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	cc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
//
//	@Summary		Update a category
//	@Description	Rename a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			pid			path		string			true	"Project ID"
//	@Param			id			path		string			true	"Category ID"
//	@Param			category	body		models.Category	true	"Updated category"
//	@Success		200			{object}	models.Category
//	@Failure		400			{object}	helpers.HTTPError
//	@Failure		401			{object}	helpers.HTTPError
//	@Failure		500			{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/categories/{id} [put]
//	@Security		Bearer
func (cc *CategoryController) UpdateCategory(ctx *gin.Context) {
	var category models.Category
	audit := cc.AuditService.InitialiseAuditLog(ctx, "update", cc.AuditCategory, ctx.Param("id"))

	categoryID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&category); err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category.ID = categoryID

	category, err = cc.CategoryService.UpdateCategory(category)
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	cc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
//
//	@Summary		Delete a category
//	@Description	Delete a category by id
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			pid	path		string	true	"Project ID"
//	@Param			id	path		string	true	"Category ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/admin/projects/{pid}/categories/{id} [delete]
//	@Security		Bearer
func (cc *CategoryController) DeleteCategory(ctx *gin.Context) {
	audit := cc.AuditService.InitialiseAuditLog(ctx, "delete", cc.AuditCategory, ctx.Param("id"))

	categoryID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.CategoryService.DeleteCategory(categoryID); err != nil {
		cc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	cc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "category deleted successfully"})
}
