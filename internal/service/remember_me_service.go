package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"metal-tracker/config"
	"metal-tracker/internal/model"
	"metal-tracker/internal/ports"
	"metal-tracker/internal/security"
	"metal-tracker/internal/util"
)

const (
	defaultValidity      = 14 * 24 * time.Hour
	defaultCreateRetries = 3
)

// RememberMeService реализует протокол персистентного remember-me входа.
//
// Одна цепочка = одна пара (series, tokenValue). series не меняется всё
// время жизни цепочки, tokenValue ротируется при каждом успешном
// автологине, поэтому каждое значение куки одноразовое. Предъявление
// известной series с чужим tokenValue трактуется как кража куки и
// отзывает все цепочки пользователя.
type RememberMeService struct {
	tokenStore     ports.TokenStoreInterface
	userDirectory  ports.UserDirectoryInterface
	cookieCodec    ports.CookieCodecInterface
	tokenGenerator ports.TokenGeneratorInterface
	identityCache  ports.IdentityCacheInterface
	validity       time.Duration
	createRetries  int
}

func NewRememberMeService(
	cfg *config.RememberMeConfig,
	tokenStore ports.TokenStoreInterface,
	userDirectory ports.UserDirectoryInterface,
	cookieCodec ports.CookieCodecInterface,
	tokenGenerator ports.TokenGeneratorInterface,
	identityCache ports.IdentityCacheInterface,
) (*RememberMeService, error) {
	validity := defaultValidity
	if cfg.Validity != "" {
		parsed, err := time.ParseDuration(cfg.Validity)
		if err != nil {
			return nil, util.LogError("ошибка парсинга rememberMe.validity", err)
		}
		validity = parsed
	}

	createRetries := cfg.CreateRetries
	if createRetries <= 0 {
		createRetries = defaultCreateRetries
	}

	return &RememberMeService{
		tokenStore:     tokenStore,
		userDirectory:  userDirectory,
		cookieCodec:    cookieCodec,
		tokenGenerator: tokenGenerator,
		identityCache:  identityCache,
		validity:       validity,
		createRetries:  createRetries,
	}, nil
}

// OnLoginSuccess заводит новую remember-me цепочку после успешного входа
// по паролю. Существующие цепочки пользователя не затрагиваются: по одной
// цепочке на устройство/браузер.
//
// Коллизия series (криптографически ничтожно вероятная) ретраится с новой
// series ограниченное число раз.
func (s *RememberMeService) OnLoginSuccess(ctx context.Context, identity *model.Identity) (*model.RememberMeCookie, error) {
	var lastErr error

	for attempt := 0; attempt < s.createRetries; attempt++ {
		series, err := s.tokenGenerator.GenerateSeries()
		if err != nil {
			return nil, util.LogError("ошибка генерации series", err)
		}
		tokenValue, err := s.tokenGenerator.GenerateTokenValue()
		if err != nil {
			return nil, util.LogError("ошибка генерации tokenValue", err)
		}

		token := &model.PersistentToken{
			Series:     series,
			UserUUID:   identity.UserUUID,
			Username:   identity.Username,
			TokenValue: tokenValue,
			LastUsed:   time.Now().UTC(),
		}

		err = s.tokenStore.CreateToken(ctx, token)
		if err == nil {
			return &model.RememberMeCookie{
				Value:  s.cookieCodec.Encode(series, tokenValue),
				MaxAge: s.validity,
			}, nil
		}

		if errors.Is(err, ports.ErrDuplicateSeries) {
			log.Printf("коллизия series, попытка %d из %d", attempt+1, s.createRetries)
			lastErr = err
			continue
		}

		return nil, fmt.Errorf("ошибка сохранения remember-me токена: %w", err)
	}

	return nil, fmt.Errorf("не удалось сохранить remember-me токен за %d попыток: %w", s.createRetries, lastErr)
}

// OnAutoLogin валидирует предъявленную remember-me куку и при успехе
// ротирует tokenValue, возвращая аутентифицированного пользователя и
// новое значение куки. Старое значение после этого одноразово сгорает.
//
// Ветка кражи: чужой tokenValue при известной series отзывает все цепочки
// пользователя, не только предъявленную. Легитимная гонка двух запросов
// со старой кукой неотличима от replay-атаки и сознательно обрабатывается
// так же (fail-safe).
func (s *RememberMeService) OnAutoLogin(ctx context.Context, cookieValue string) (*model.Identity, *model.RememberMeCookie, error) {
	presentedSeries, presentedToken, err := s.cookieCodec.Decode(cookieValue)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.tokenStore.FindBySeries(ctx, presentedSeries)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка поиска series: %w", err)
	}
	if record == nil {
		return nil, nil, security.ErrUnknownSeries
	}

	if subtle.ConstantTimeCompare([]byte(presentedToken), []byte(record.TokenValue)) != 1 {
		return nil, nil, s.handleCookieTheft(ctx, record)
	}

	if time.Now().UTC().Sub(record.LastUsed) > s.validity {
		return nil, nil, security.ErrTokenExpired
	}

	user, err := s.userDirectory.LoadByUsername(ctx, record.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка поиска пользователя в каталоге: %w", err)
	}
	if user == nil {
		log.Printf("remember-me series %s ссылается на несуществующего пользователя %s", record.Series, record.Username)
		return nil, nil, fmt.Errorf("%w: пользователь каталога не найден", security.ErrUnknownSeries)
	}

	newTokenValue, err := s.tokenGenerator.GenerateTokenValue()
	if err != nil {
		return nil, nil, util.LogError("ошибка генерации tokenValue", err)
	}

	if err := s.tokenStore.UpdateToken(ctx, presentedSeries, newTokenValue, time.Now().UTC()); err != nil {
		return nil, nil, fmt.Errorf("ошибка ротации remember-me токена: %w", err)
	}

	return user.Identity(), &model.RememberMeCookie{
		Value:  s.cookieCodec.Encode(presentedSeries, newTokenValue),
		MaxAge: s.validity,
	}, nil
}

// handleCookieTheft отзывает все цепочки владельца series.
// Если отзыв не удался, наружу уходит ошибка хранилища, а не
// ErrCookieTheftDetected: провал отзыва нельзя маскировать под
// "не авторизован".
func (s *RememberMeService) handleCookieTheft(ctx context.Context, record *model.PersistentToken) error {
	log.Printf("SECURITY: обнаружена кража remember-me куки, user_uuid=%s series=%s — отзыв всех цепочек", record.UserUUID, record.Series)

	if err := s.tokenStore.DeleteAllForUser(ctx, record.UserUUID); err != nil {
		return fmt.Errorf("не удалось отозвать цепочки после обнаружения кражи: %w", err)
	}

	if s.identityCache != nil {
		if err := s.identityCache.DeleteUser(ctx, record.Username); err != nil {
			log.Printf("не удалось инвалидировать кэш пользователя %s: %v", record.Username, err)
		}
	}

	return security.ErrCookieTheftDetected
}

// OnLogout удаляет все цепочки пользователя — выход сразу со всех
// устройств, потому что отзыв в хранилище ключуется по user_uuid
func (s *RememberMeService) OnLogout(ctx context.Context, userUUID string) error {
	if err := s.tokenStore.DeleteAllForUser(ctx, userUUID); err != nil {
		return fmt.Errorf("не удалось удалить remember-me токены: %w", err)
	}
	return nil
}
