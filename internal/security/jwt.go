package security

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"metal-tracker/config"
	"metal-tracker/internal/model"
	"metal-tracker/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID string   `json:"user_uuid"`
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

func (service *JWTService) GenerateAccessToken(identity *model.Identity) (string, error) {
	timeDuration, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return "", util.LogError("ошибка парсинга access_token_ttl", err)
	}

	claims := Claims{
		UserUUID: identity.UserUUID,
		Username: identity.Username,
		Roles:    identity.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(timeDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "metal-tracker",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return accessToken, nil
}

func (service *JWTService) ValidateJWT(jwtTokenStr string, secretKey []byte) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil || jwtToken.Valid == false {
		return nil, util.LogError("невалидный токен", err)
	}

	return claims, nil
}

// RememberMeAutoLogin : ровно та часть remember-me сервиса, которая нужна
// middleware для автологина по куке
type RememberMeAutoLogin interface {
	OnAutoLogin(ctx context.Context, cookieValue string) (*model.Identity, *model.RememberMeCookie, error)
}

// AuthMiddleware аутентифицирует запрос.
// Сначала проверяется Bearer access-токен. Если его нет или он невалиден,
// выполняется попытка автологина по remember-me куке: при успехе кука
// ротируется и клиенту дополнительно выдаётся свежий access-токен в
// заголовке X-Auth-Token.
func AuthMiddleware(secretKey []byte, jwtService *JWTService, rememberMe RememberMeAutoLogin, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(secretKey, jwtService, rememberMe, cookieName, next))
	}
}

func handleAuthentication(secretKey []byte, jwtService *JWTService, rememberMe RememberMeAutoLogin, cookieName string, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if strings.HasPrefix(authorizationHeader, "Bearer ") {
			token := strings.TrimPrefix(authorizationHeader, "Bearer ")

			claims, err := jwtService.ValidateJWT(token, secretKey)
			if err == nil {
				identity := &model.Identity{
					UserUUID: claims.UserUUID,
					Username: claims.Username,
					Roles:    claims.Roles,
				}
				req := request.WithContext(context.WithValue(request.Context(), UserContextKey, identity))
				next.ServeHTTP(writer, req)
				return
			}
			log.Printf("невалидный access токен: %v", err)
		}

		cookie, err := request.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			http.Error(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		identity, rotated, err := rememberMe.OnAutoLogin(request.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, ErrCookieTheftDetected):
				// все устройства пользователя уже разлогинены сервисом
				ClearRememberMeCookie(writer, cookieName)
				http.Error(writer, "ваша сессия могла быть скомпрометирована, все устройства разлогинены", http.StatusUnauthorized)
			case errors.Is(err, ErrInvalidCookie),
				errors.Is(err, ErrUnknownSeries),
				errors.Is(err, ErrTokenExpired):
				http.Error(writer, "unauthorized", http.StatusUnauthorized)
			default:
				log.Printf("ошибка автологина: %v", err)
				http.Error(writer, "внутренняя ошибка сервера", http.StatusInternalServerError)
			}
			return
		}

		WriteRememberMeCookie(writer, cookieName, rotated)

		if accessToken, tokenErr := jwtService.GenerateAccessToken(identity); tokenErr == nil {
			writer.Header().Set("X-Auth-Token", accessToken)
		} else {
			log.Printf("не удалось выдать access токен после автологина: %v", tokenErr)
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, identity))
		next.ServeHTTP(writer, req)
	}
}

func GetIdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(UserContextKey).(*model.Identity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("пользователь не авторизован")
	}
	return identity, nil
}
