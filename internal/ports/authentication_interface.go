package ports

import (
	"context"

	"metal-tracker/internal/model"
)

type AuthenticationServiceInterface interface {
	Login(ctx context.Context, username, password string) (string, *model.RememberMeCookie, error)
	Logout(ctx context.Context, identity *model.Identity) error
}
