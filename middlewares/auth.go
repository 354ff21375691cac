package middlewares

import (
	"log"
	"net/http"
	"strings"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"
	"github.com/feedhub-io/feedhub/services"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
)

const ApiKeyHeader = "x-api-key"

// AuthenticationMiddleware accepts either a project API key (feedback
// intake) or a JWT from the Authorization header or the token cookie.
func AuthenticationMiddleware(as services.AuthService, jwtConf config.JWTConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		apiKey := ctx.GetHeader(ApiKeyHeader)
		if apiKey != "" {
			projectID, err := uuid.FromString(ctx.Param("pid"))
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "api key outside project scope."})
				return
			}
			valid, err := as.ValidateApiKey(apiKey, projectID)
			if err != nil || !valid {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key."})
				return
			}
			ctx.Set("userID", uuid.Nil)
			ctx.Set("username", "api-key")
			ctx.Set("provider", "api_key")
			ctx.Next()
			return
		}

		var token string
		bearer := strings.Split(ctx.GetHeader("Authorization"), "Bearer ")
		if len(bearer) > 1 {
			token = bearer[1]
		}
		cookie, err := ctx.Request.Cookie("token")
		if token == "" {
			if err != nil {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please authenticate."})
				return
			}
			token = cookie.Value
		}

		claims, err := helpers.ValidateJWTToken(token, jwtConf)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token."})
			return
		}

		ctx.Set("userID", claims.UserID)
		ctx.Set("username", claims.Username)
		ctx.Set("provider", claims.Provider)
		ctx.Next()
	}
}

// AuthorizationMiddleware gates a resource/access pair on the user's
// role inside the project named by the :pid route param. API keys are
// only good for submitting feedback.
func AuthorizationMiddleware(as services.AuthService, resource string, access string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		provider := ctx.MustGet("provider").(string)
		if provider == "api_key" {
			if resource == "feedbacks" && access == "write" {
				ctx.Next()
				return
			}
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized - api keys can only submit feedback"})
			return
		}

		userID := ctx.MustGet("userID").(uuid.UUID)
		// routes without a :pid param resolve to the nil project, which
		// no role grants - only root passes
		projectID, _ := uuid.FromString(ctx.Param("pid"))

		isAuthorised, err := as.IsAuthorised(
			&models.Authorization{
				UserID:    userID,
				Provider:  provider,
				ProjectID: projectID,
				Resource:  resource,
				Access:    access,
			},
		)
		if err != nil {
			log.Println(err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error."})
			return
		}

		if isAuthorised {
			ctx.Next()
			return
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized - user cannot access resource"})
	}
}
