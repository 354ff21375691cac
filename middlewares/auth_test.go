package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	authorised bool
	validKey   string
	lastAuth   *models.Authorization
}

func (f *fakeAuthService) Login(*models.Credentials) (string, int, error) { return "", -1, nil }
func (f *fakeAuthService) Refresh(string) (string, int, error)            { return "", -1, nil }

func (f *fakeAuthService) IsAuthorised(auth *models.Authorization) (bool, error) {
	f.lastAuth = auth
	return f.authorised, nil
}

func (f *fakeAuthService) ValidateApiKey(key string, projectID uuid.UUID) (bool, error) {
	return key == f.validKey, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Key: []byte("test-key"), ExpirySeconds: 60}
}

func newAuthRouter(as *fakeAuthService, resource string, access string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/projects/:pid/probe",
		AuthenticationMiddleware(as, testJWTConfig()),
		AuthorizationMiddleware(as, resource, access),
		func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"provider": ctx.MustGet("provider")})
		})
	return router
}

func TestAuthenticationRejectsMissingCredentials(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{}, "feedbacks", "write")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/"+uuid.NewV4().String()+"/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticationAcceptsBearerToken(t *testing.T) {
	as := &fakeAuthService{authorised: true}
	router := newAuthRouter(as, "webhooks", "write")

	userID := uuid.NewV4()
	token, err := helpers.CreateJWTToken(
		&models.Credentials{Username: "jo", Password: "x", Provider: "local"},
		userID, testJWTConfig())
	require.NoError(t, err)

	projectID := uuid.NewV4()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, as.lastAuth)
	assert.Equal(t, userID, as.lastAuth.UserID)
	assert.Equal(t, projectID, as.lastAuth.ProjectID)
	assert.Equal(t, "webhooks", as.lastAuth.Resource)
	assert.Equal(t, "write", as.lastAuth.Access)
}

func TestAuthenticationRejectsBadToken(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{authorised: true}, "webhooks", "write")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/"+uuid.NewV4().String()+"/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthorizationDeniesWithoutPermission(t *testing.T) {
	as := &fakeAuthService{authorised: false}
	router := newAuthRouter(as, "webhooks", "write")

	token, err := helpers.CreateJWTToken(
		&models.Credentials{Username: "jo", Password: "x", Provider: "local"},
		uuid.NewV4(), testJWTConfig())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/"+uuid.NewV4().String()+"/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApiKeySubmitsFeedbackOnly(t *testing.T) {
	as := &fakeAuthService{validKey: "good-key"}
	feedbackRouter := newAuthRouter(as, "feedbacks", "write")
	webhookRouter := newAuthRouter(as, "webhooks", "write")

	projectID := uuid.NewV4()

	// a valid key can write feedback
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/probe", nil)
	req.Header.Set(ApiKeyHeader, "good-key")
	feedbackRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// but nothing else
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/probe", nil)
	req.Header.Set(ApiKeyHeader, "good-key")
	webhookRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// and an unknown key nothing at all
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/projects/"+projectID.String()+"/probe", nil)
	req.Header.Set(ApiKeyHeader, "bad-key")
	feedbackRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
