package ports

import (
	"context"

	"metal-tracker/internal/model"
)

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

// UserDirectoryInterface : поиск пользователя по username.
// Возвращает nil, nil если пользователь не найден.
type UserDirectoryInterface interface {
	LoadByUsername(ctx context.Context, username string) (*model.User, error)
}
