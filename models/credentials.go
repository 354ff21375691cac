package models

import (
	"github.com/golang-jwt/jwt"
	uuid "github.com/satori/go.uuid"
)

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

type Claims struct {
	Username string    `json:"username"`
	UserID   uuid.UUID `json:"user_id"`
	Provider string    `json:"provider"`
	jwt.StandardClaims
}

// Authorization is the question the auth middleware asks: may this user
// perform access on resource inside project?
type Authorization struct {
	UserID    uuid.UUID
	Provider  string
	ProjectID uuid.UUID
	Resource  string
	Access    string
}
