package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/middlewares"
	"github.com/feedhub-io/feedhub/services"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	AuditService services.AuditService
	AuthService  services.AuthService
}

func NewAuditController(als services.AuditService, as services.AuthService) AuditController {
	return AuditController{
		AuditService: als,
		AuthService:  as,
	}
}

func (ac *AuditController) SetAuditRoutes(rg *gin.RouterGroup, config config.Config) {
	r := rg.Group("").Use(
		middlewares.AuthenticationMiddleware(ac.AuthService, config.JWT),
		middlewares.AuthorizationMiddleware(ac.AuthService, "audit", "read"))
	{
		r.GET("", ac.ListAuditLogs)
	}
}

// ListAuditLogs godoc
//
//	@Summary		List audit logs
//	@Description	List the latest audit log entries, newest first
//	@Tags			audit
//	@Accept			json
//	@Produce		json
//	@Param			max	query		int	false	"Maximum number of entries"	default(200)
//	@Success		200	{array}		models.AuditLog
//	@Failure		401	{object}	helpers.HTTPError
//	@Failure		500	{object}	helpers.HTTPError
//	@Router			/audit_logs [get]
//	@Security		Bearer
func (ac *AuditController) ListAuditLogs(ctx *gin.Context) {
	max := 200
	if val, ok := ctx.GetQuery("max"); ok {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			max = parsed
		}
	}

	logs, err := ac.AuditService.ListAuditLogs(max)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-range", fmt.Sprintf("%v", len(logs)))
	if len(logs) == 0 {
		var arr [0]int
		ctx.JSON(http.StatusOK, arr)
		return
	}

	ctx.JSON(http.StatusOK, logs)
}
