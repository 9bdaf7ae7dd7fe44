package service

import (
	"context"
	"fmt"
	"log"

	"metal-tracker/internal/model"
	"metal-tracker/internal/ports"
)

// UserDirectoryService : каталог пользователей поверх БД со сквозным
// кэшем в Redis. Кэш best-effort: его недоступность не валит запрос.
type UserDirectoryService struct {
	userRepository ports.UserRepositoryInterface
	identityCache  ports.IdentityCacheInterface
}

func NewUserDirectoryService(
	userRepository ports.UserRepositoryInterface,
	identityCache ports.IdentityCacheInterface,
) *UserDirectoryService {
	return &UserDirectoryService{
		userRepository: userRepository,
		identityCache:  identityCache,
	}
}

// LoadByUsername возвращает пользователя по username.
// Возвращает nil, nil если пользователь не найден.
func (s *UserDirectoryService) LoadByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.identityCache != nil {
		cached, err := s.identityCache.GetUser(ctx, username)
		if err != nil {
			log.Printf("кэш пользователей недоступен: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if s.identityCache != nil {
		if err := s.identityCache.SetUser(ctx, user); err != nil {
			log.Printf("не удалось закэшировать пользователя %s: %v", username, err)
		}
	}

	return user, nil
}
