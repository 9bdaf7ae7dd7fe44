package ports

import (
	"metal-tracker/internal/model"
	"metal-tracker/internal/security"
)

type JWTServiceInterface interface {
	GenerateAccessToken(identity *model.Identity) (string, error)
	ValidateJWT(tokenString string, secret []byte) (*security.Claims, error)
}
