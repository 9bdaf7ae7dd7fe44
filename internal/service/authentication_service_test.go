package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"metal-tracker/internal/model"
	"metal-tracker/internal/security"
	"metal-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===== HELPERS =====

func newTestAuthService() (*service.AuthenticationService, *MockUserDirectory, *MockJWTService, *MockRememberMeService, *MockIdentityCache) {
	mockDir := new(MockUserDirectory)
	mockJWT := new(MockJWTService)
	mockRememberMe := new(MockRememberMeService)
	mockCache := new(MockIdentityCache)

	svc := service.NewAuthenticationService(mockDir, mockJWT, mockRememberMe, mockCache)

	return svc, mockDir, mockJWT, mockRememberMe, mockCache
}

// ===== TESTS =====

// 1. Пользователь не найден
func TestLogin_UserNotFound(t *testing.T) {
	svc, mockDir, _, _, _ := newTestAuthService()
	ctx := context.Background()

	mockDir.On("LoadByUsername", ctx, "metalhead1").Return(nil, nil)

	_, _, err := svc.Login(ctx, "metalhead1", "pass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "пользователь не найден")
	mockDir.AssertExpectations(t)
}

// 2. Неверный пароль
func TestLogin_WrongPassword(t *testing.T) {
	svc, mockDir, _, _, _ := newTestAuthService()
	ctx := context.Background()

	// создаем юзера с хэшем от "goodpass"
	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "metalhead1", PasswordHash: hash}

	mockDir.On("LoadByUsername", ctx, "metalhead1").Return(user, nil)

	_, _, err := svc.Login(ctx, "metalhead1", "badpass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "неверный логин или пароль")
	mockDir.AssertExpectations(t)
}

// 3. Ошибка генерации access токена
func TestLogin_GenerateTokenError(t *testing.T) {
	svc, mockDir, mockJWT, _, _ := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "metalhead1", PasswordHash: hash}

	mockDir.On("LoadByUsername", ctx, "metalhead1").Return(user, nil)
	mockJWT.On("GenerateAccessToken", mock.Anything).Return("", errors.New("token error"))

	_, _, err := svc.Login(ctx, "metalhead1", "goodpass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка генерации токенов")
	mockDir.AssertExpectations(t)
	mockJWT.AssertExpectations(t)
}

// 4. Ошибка сохранения remember-me токена
func TestLogin_RememberMeError(t *testing.T) {
	svc, mockDir, mockJWT, mockRememberMe, _ := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "metalhead1", PasswordHash: hash}

	mockDir.On("LoadByUsername", ctx, "metalhead1").Return(user, nil)
	mockJWT.On("GenerateAccessToken", mock.Anything).Return("acc", nil)
	mockRememberMe.On("OnLoginSuccess", ctx, mock.Anything).Return(nil, errors.New("db error"))

	_, _, err := svc.Login(ctx, "metalhead1", "goodpass")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка сохранения remember-me токена")
	mockRememberMe.AssertExpectations(t)
}

// 5. Успешный логин: access токен + remember-me кука
func TestLogin_Success(t *testing.T) {
	svc, mockDir, mockJWT, mockRememberMe, _ := newTestAuthService()
	ctx := context.Background()

	hash, _ := security.HashPassword("goodpass")
	user := &model.User{UUID: "u1", Username: "metalhead1", PasswordHash: hash, Roles: []string{"ROLE_USER"}}
	cookie := &model.RememberMeCookie{Value: "encoded", MaxAge: 14 * 24 * time.Hour}

	mockDir.On("LoadByUsername", ctx, "metalhead1").Return(user, nil)
	mockJWT.On("GenerateAccessToken", mock.MatchedBy(func(identity *model.Identity) bool {
		return identity.UserUUID == "u1" && identity.Username == "metalhead1"
	})).Return("acc", nil)
	mockRememberMe.On("OnLoginSuccess", ctx, mock.Anything).Return(cookie, nil)

	accessToken, gotCookie, err := svc.Login(ctx, "metalhead1", "goodpass")

	assert.NoError(t, err)
	assert.Equal(t, "acc", accessToken)
	assert.Equal(t, cookie, gotCookie)

	mockDir.AssertExpectations(t)
	mockJWT.AssertExpectations(t)
	mockRememberMe.AssertExpectations(t)
}

// 6. Logout удаляет все цепочки и инвалидирует кэш каталога
func TestLogout_Success(t *testing.T) {
	svc, _, _, mockRememberMe, mockCache := newTestAuthService()
	ctx := context.Background()

	mockRememberMe.On("OnLogout", ctx, "u1").Return(nil)
	mockCache.On("DeleteUser", ctx, "metalhead1").Return(nil)

	err := svc.Logout(ctx, &model.Identity{UserUUID: "u1", Username: "metalhead1"})

	assert.NoError(t, err)
	mockRememberMe.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

// 7. Ошибка удаления цепочек при logout
func TestLogout_StoreError(t *testing.T) {
	svc, _, _, mockRememberMe, _ := newTestAuthService()
	ctx := context.Background()

	mockRememberMe.On("OnLogout", ctx, "u1").Return(errors.New("db error"))

	err := svc.Logout(ctx, &model.Identity{UserUUID: "u1", Username: "metalhead1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не удалось завершить сессию")
	mockRememberMe.AssertExpectations(t)
}
