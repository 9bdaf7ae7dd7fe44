package service

import (
	"context"
	"fmt"
	"log"

	"metal-tracker/config"
	"metal-tracker/internal/model"
	"metal-tracker/internal/ports"
	"metal-tracker/internal/security"

	"github.com/google/uuid"
)

type UserService struct {
	userRepository ports.UserRepositoryInterface
}

func NewUserService(userRepository ports.UserRepositoryInterface) *UserService {
	return &UserService{userRepository: userRepository}
}

// EnsureAdminUser создаёт административного пользователя из конфига,
// если его ещё нет. Регистрации через API нет, пользователи заводятся
// администратором.
func (s *UserService) EnsureAdminUser(ctx context.Context, cfg *config.AdminConfig) error {
	if cfg == nil || cfg.Username == "" {
		return nil
	}

	exists, err := s.userRepository.Exists(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("ошибка проверки администратора: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("не удалось создать хэш пароля: %w", err)
	}

	admin := &model.User{
		UUID:         uuid.New().String(),
		Username:     cfg.Username,
		PasswordHash: hash,
		Roles:        []string{"ROLE_ADMIN", "ROLE_USER"},
	}

	if _, err := s.userRepository.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("не удалось создать администратора: %w", err)
	}

	log.Printf("создан административный пользователь %s", cfg.Username)
	return nil
}
