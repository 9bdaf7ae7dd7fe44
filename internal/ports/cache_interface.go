package ports

import (
	"context"

	"metal-tracker/internal/model"
)

type IdentityCacheInterface interface {
	SetUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error
}
