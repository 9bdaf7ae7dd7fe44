package security

import "errors"

// Ошибки remember-me протокола.
// ErrInvalidCookie, ErrUnknownSeries и ErrTokenExpired для HTTP-слоя означают
// просто "не авторизован". ErrCookieTheftDetected — единственная ветка с
// обязательным побочным эффектом: перед возвратом ошибки отзываются все
// цепочки пользователя.
var (
	ErrInvalidCookie       = errors.New("повреждённая remember-me кука")
	ErrUnknownSeries       = errors.New("series не найдена")
	ErrCookieTheftDetected = errors.New("обнаружена кража remember-me куки")
	ErrTokenExpired        = errors.New("remember-me токен просрочен")
)
