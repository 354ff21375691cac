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

type UserController struct {
	UserService   services.UserService
	AuthService   services.AuthService
	AuditService  services.AuditService
	AuditCategory string
}

func NewUserController(us services.UserService, as services.AuthService, als services.AuditService) UserController {
	return UserController{
		UserService:   us,
		AuthService:   as,
		AuditService:  als,
		AuditCategory: "users",
	}
}

func (uc *UserController) SetUserRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(uc.AuthService, config.JWT),
		middlewares.AuthorizationMiddleware(uc.AuthService, "users", "write"))
	{
		r.GET("", uc.ListUsers)
		r.GET("/:id", uc.GetUser)
		r.POST("", uc.CreateUser)
		r.PUT("/:id", uc.UpdateUser)
		r.DELETE("/:id", uc.DeleteUser)
	}
}

// ListUsers godoc
//
//	@Summary		List users
//	@Description	List all users
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Success		200	{array}		models.User
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/users [get]
//	@Security		Bearer
func (uc *UserController) ListUsers(ctx *gin.Context) {
	users, err := uc.UserService.ListUsers()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(users)))
	if len(users) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// GetUser godoc
//
//	@Summary		Get a user
//	@Description	Get a user by id
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	models.User
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/users/{id} [get]
//	@Security		Bearer
func (uc *UserController) GetUser(ctx *gin.Context) {
	userID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.UserService.GetUser(userID)
	if err != nil {
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// CreateUser godoc
//
//	@Summary		Create a user
//	@Description	Create a local user
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.User	true	"New user"
//	@Success		201		{object}	models.User
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/users [post]
//	@Security		Bearer
func (uc *UserController) CreateUser(ctx *gin.Context) {
	var user models.User
	audit := uc.AuditService.InitialiseAuditLog(ctx, "create", uc.AuditCategory, "*")

	if err := ctx.ShouldBindJSON(&user); err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	audit.EventTarget = user.Username

	user, err := uc.UserService.CreateUser(user)
	if err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}
	user.Password = ""

	audit.Status = "success"
	uc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
//
//	@Summary		Update a user
//	@Description	Update a user password
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"User ID"
//	@Param			user	body		models.User	true	"Updated user"
//	@Success		200		{object}	models.User
//	@Failure		400		{object}	helpers.HTTPError
//	@Failure		401		{object}	helpers.HTTPError
//	@Failure		500		{object}	helpers.HTTPError
//	@Router			/users/{id} [put]
//	@Security		Bearer
func (uc *UserController) UpdateUser(ctx *gin.Context) {
	var user models.User
	audit := uc.AuditService.InitialiseAuditLog(ctx, "update", uc.AuditCategory, ctx.Param("id"))

	userID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctx.ShouldBindJSON(&user); err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user.ID = userID

	user, err = uc.UserService.UpdateUser(user)
	if err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	uc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, user)
}

// DeleteUser godoc
//
//	@Summary		Delete a user
//	@Description	Delete a user by id
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	string
//	@Failure		400	{object}	helpers.HTTPError
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/users/{id} [delete]
//	@Security		Bearer
func (uc *UserController) DeleteUser(ctx *gin.Context) {
	audit := uc.AuditService.InitialiseAuditLog(ctx, "delete", uc.AuditCategory, ctx.Param("id"))

	userID, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := uc.UserService.DeleteUser(userID); err != nil {
		uc.AuditService.CreateAudit(audit)
		ctx.JSON(errStatus(err), gin.H{"error": err.Error()})
		return
	}

	audit.Status = "success"
	uc.AuditService.CreateAudit(audit)
	ctx.JSON(http.StatusOK, gin.H{"msg": "user deleted successfully"})
}
