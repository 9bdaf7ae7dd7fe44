package service

import (
	"context"
	"fmt"
	"log"

	"metal-tracker/internal/model"
	"metal-tracker/internal/ports"
	"metal-tracker/internal/security"
)

type AuthenticationService struct {
	userDirectory     ports.UserDirectoryInterface
	jwtService        ports.JWTServiceInterface
	rememberMeService ports.RememberMeServiceInterface
	identityCache     ports.IdentityCacheInterface
}

func NewAuthenticationService(
	userDirectory ports.UserDirectoryInterface,
	jwtService ports.JWTServiceInterface,
	rememberMeService ports.RememberMeServiceInterface,
	identityCache ports.IdentityCacheInterface,
) *AuthenticationService {
	return &AuthenticationService{
		userDirectory:     userDirectory,
		jwtService:        jwtService,
		rememberMeService: rememberMeService,
		identityCache:     identityCache,
	}
}

// Login выполняет первичную аутентификацию по паролю.
// При успехе выдаёт access-токен и заводит новую remember-me цепочку
// для этого устройства.
func (s *AuthenticationService) Login(ctx context.Context, username, password string) (string, *model.RememberMeCookie, error) {
	user, err := s.userDirectory.LoadByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		return "", nil, fmt.Errorf("пользователь не найден")
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return "", nil, fmt.Errorf("неверный логин или пароль")
	}

	identity := user.Identity()

	accessToken, err := s.jwtService.GenerateAccessToken(identity)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	cookie, err := s.rememberMeService.OnLoginSuccess(ctx, identity)
	if err != nil {
		return "", nil, fmt.Errorf("ошибка сохранения remember-me токена: %w", err)
	}

	return accessToken, cookie, nil
}

// Logout завершает сессию пользователя на всех устройствах:
// удаляются все его remember-me цепочки, кэш каталога инвалидируется
func (s *AuthenticationService) Logout(ctx context.Context, identity *model.Identity) error {
	if err := s.rememberMeService.OnLogout(ctx, identity.UserUUID); err != nil {
		return fmt.Errorf("не удалось завершить сессию: %w", err)
	}

	if s.identityCache != nil {
		if err := s.identityCache.DeleteUser(ctx, identity.Username); err != nil {
			log.Printf("не удалось инвалидировать кэш пользователя %s: %v", identity.Username, err)
		}
	}

	return nil
}
