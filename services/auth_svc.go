package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/feedhub-io/feedhub/config"
	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/golang-jwt/jwt"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
)

type AuthService interface {
	Login(*models.Credentials) (string, int, error)
	Refresh(string) (string, int, error)
	IsAuthorised(*models.Authorization) (bool, error)
	ValidateApiKey(string, uuid.UUID) (bool, error)
}

type AuthServiceImpl struct {
	config        config.Config
	UserService   UserService
	MemberService MemberService
	ApiKeyService ApiKeyService
}

func NewAuthService(config config.Config, us UserService, ms MemberService, ks ApiKeyService) AuthService {
	return &AuthServiceImpl{
		config:        config,
		UserService:   us,
		MemberService: ms,
		ApiKeyService: ks,
	}
}

func (a *AuthServiceImpl) Login(credentials *models.Credentials) (string, int, error) {
	var user models.User
	var err error

	if credentials.Username == "root" {
		if credentials.Password != a.config.RootPassword {
			err := errors.New("password is incorrect")
			return "", -1, err
		}
		user, err = a.UserService.GetByUsernameAndProvider(credentials.Username, credentials.Provider)
		if err != nil {
			return "", -1, err
		}
	} else if credentials.Provider == "local" {
		user, err = a.UserService.GetByUsernameAndProvider(credentials.Username, credentials.Provider)
		if err != nil {
			return "", -1, err
		}
		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password))
		if err != nil {
			log.Println(err)
			return "", -1, err
		}
	} else if credentials.Provider == "active_directory" && a.config.LDAP.FQDN != "" {
		err := helpers.BindAndSearch(a.config.LDAP, credentials.Username, credentials.Password)
		if err != nil {
			return "", -1, err
		}
		// AD users are created on first login
		_, err = a.UserService.CreateUser(models.User{
			Username: credentials.Username,
			Provider: credentials.Provider,
		})
		if err != nil && !strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			log.Println(err.Error())
			return "", -1, err
		}
		user, err = a.UserService.GetByUsernameAndProvider(credentials.Username, credentials.Provider)
		if err != nil {
			return "", -1, err
		}
	} else {
		err := errors.New("provider does not exist")
		return "", -1, err
	}

	token, err := helpers.CreateJWTToken(credentials, user.ID, a.config.JWT)
	if err != nil {
		log.Println(err)
		return "", -1, err
	}

	return token, a.config.JWT.ExpirySeconds, nil
}

func (a *AuthServiceImpl) Refresh(tokenStr string) (string, int, error) {
	claims, err := helpers.ValidateJWTToken(tokenStr, a.config.JWT)
	if err != nil {
		return "", -1, err
	}

	expirationTime := time.Now().Add(time.Second * time.Duration(a.config.JWT.ExpirySeconds))

	claims.ExpiresAt = expirationTime.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err = token.SignedString(a.config.JWT.Key)
	if err != nil {
		log.Println(err)
		return "", -1, err
	}

	return tokenStr, a.config.JWT.ExpirySeconds, nil
}

// IsAuthorised resolves the user's project role to a yes/no on one
// resource/access pair. "*:write" grants everything, "<res>:write"
// implies "<res>:read".
func (a *AuthServiceImpl) IsAuthorised(auth *models.Authorization) (bool, error) {
	// root bypasses project membership
	user, err := a.UserService.GetByUsernameAndProvider("root", "local")
	if err == nil && user.ID == auth.UserID {
		return true, nil
	}

	permissions, err := a.MemberService.GetUserPermissions(auth.UserID, auth.ProjectID)
	if err != nil {
		log.Println(err)
		return false, err
	}

	for _, permission := range []string{
		"*:write",
		"*:" + auth.Access,
		auth.Resource + ":write",
		auth.Resource + ":" + auth.Access,
	} {
		if slices.Contains(permissions, permission) {
			return true, nil
		}
	}

	return false, nil
}

func (a *AuthServiceImpl) ValidateApiKey(key string, projectID uuid.UUID) (bool, error) {
	return a.ApiKeyService.ValidateKey(key, projectID)
}
