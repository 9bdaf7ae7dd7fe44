package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"metal-tracker/config"
	"metal-tracker/internal/model"
	"metal-tracker/internal/ports"
	"metal-tracker/internal/util"

	"github.com/lib/pq"
)

// uniqueViolation : код ошибки Postgres для нарушения уникальности
const uniqueViolation = "23505"

type TokenRepository struct {
	*config.Database
}

func NewTokenRepository(database *config.Database) *TokenRepository {
	return &TokenRepository{database}
}

// CreateToken сохраняет новую remember-me цепочку.
// Коллизия series возвращается как ports.ErrDuplicateSeries, чтобы
// вызывающая сторона могла перегенерировать series и повторить вставку.
func (r *TokenRepository) CreateToken(ctx context.Context, token *model.PersistentToken) error {
	query := `INSERT INTO persistent_logins (series, user_uuid, username, token_value, last_used)
				VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.DB.ExecContext(ctx, query,
		token.Series,
		token.UserUUID,
		token.Username,
		token.TokenValue,
		token.LastUsed,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("%w: %v", ports.ErrDuplicateSeries, err)
		}
		return util.LogError("[TokenRepo] ошибка вставки данных в БД", err)
	}

	return nil
}

// FindBySeries ищет цепочку по series.
// Отсутствие записи — штатный исход (устаревшая или поддельная кука),
// возвращается nil, nil без ошибки.
func (r *TokenRepository) FindBySeries(ctx context.Context, series string) (*model.PersistentToken, error) {
	query := `SELECT series, user_uuid, username, token_value, last_used FROM persistent_logins WHERE series = $1`

	token := &model.PersistentToken{}

	err := r.DB.QueryRowContext(ctx, query, series).Scan(
		&token.Series,
		&token.UserUUID,
		&token.Username,
		&token.TokenValue,
		&token.LastUsed,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, util.LogError("[TokenRepo] ошибка при выполнении запроса", err)
	}

	return token, nil
}

// UpdateToken ротирует цепочку: перезаписывает token_value и last_used,
// не трогая user_uuid и username
func (r *TokenRepository) UpdateToken(ctx context.Context, series string, newTokenValue string, newLastUsed time.Time) error {
	query := `UPDATE persistent_logins SET token_value = $2, last_used = $3 WHERE series = $1`

	result, err := r.DB.ExecContext(ctx, query, series, newTokenValue, newLastUsed)
	if err != nil {
		return util.LogError("[TokenRepo] не удалось обновить remember-me токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[TokenRepo] не удалось проверить, обновлён ли токен", err)
	}
	if rowsAffected == 0 {
		return util.LogError("[TokenRepo] не удалось найти series для ротации", sql.ErrNoRows)
	}

	return nil
}

// DeleteAllForUser удаляет все цепочки пользователя (все устройства).
// Отзыв всегда по неизменяемому user_uuid, не по username: username может
// быть переименован между выдачей и отзывом. Идемпотентна: ноль удалённых
// записей — не ошибка.
func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userUUID string) error {
	query := `DELETE FROM persistent_logins WHERE user_uuid = $1`

	if _, err := r.DB.ExecContext(ctx, query, userUUID); err != nil {
		return util.LogError("[TokenRepo] не удалось удалить токены пользователя", err)
	}

	return nil
}
