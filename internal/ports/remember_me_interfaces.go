package ports

import (
	"context"
	"errors"
	"time"

	"metal-tracker/internal/model"
)

// ErrDuplicateSeries возвращается хранилищем при коллизии series.
// Вызывающая сторона должна перегенерировать series и повторить вставку.
var ErrDuplicateSeries = errors.New("series уже существует")

type TokenStoreInterface interface {
	CreateToken(ctx context.Context, token *model.PersistentToken) error
	FindBySeries(ctx context.Context, series string) (*model.PersistentToken, error)
	UpdateToken(ctx context.Context, series string, newTokenValue string, newLastUsed time.Time) error
	DeleteAllForUser(ctx context.Context, userUUID string) error
}

type RememberMeServiceInterface interface {
	OnLoginSuccess(ctx context.Context, identity *model.Identity) (*model.RememberMeCookie, error)
	OnAutoLogin(ctx context.Context, cookieValue string) (*model.Identity, *model.RememberMeCookie, error)
	OnLogout(ctx context.Context, userUUID string) error
}

type CookieCodecInterface interface {
	Encode(series string, tokenValue string) string
	Decode(cookieValue string) (string, string, error)
}

type TokenGeneratorInterface interface {
	GenerateSeries() (string, error)
	GenerateTokenValue() (string, error)
}
