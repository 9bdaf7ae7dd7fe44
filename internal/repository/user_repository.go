package repository

import (
	"context"
	"database/sql"
	"errors"

	"metal-tracker/config"
	"metal-tracker/internal/model"
	"metal-tracker/internal/util"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, username, password_hash, roles)
	VALUES ($1, $2, $3, $4)
	RETURNING uuid, username, password_hash, roles, created_at
	`

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query, user.UUID, user.Username, user.PasswordHash, user.Roles).
		StructScan(createdUser)

	if err != nil {
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUsername : ищет пользователя по username.
// Возвращает nil, nil если пользователь не найден
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT uuid, username, password_hash, roles, created_at FROM users WHERE username = $1`

	var user model.User
	err := r.DB.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по username", err)
	}
	return &user, nil
}

// Exists : проверяет, существует ли пользователь с таким username
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	err := r.DB.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, util.LogError("[UserRepo] ошибка проверки существования пользователя", err)
	}
	return exists, nil
}
