package model

import "time"

// PersistentToken : одна remember-me цепочка (одно устройство/браузер).
// series не меняется всё время жизни цепочки, tokenValue ротируется
// при каждом успешном автологине.
type PersistentToken struct {
	Series     string    `db:"series"`
	UserUUID   string    `db:"user_uuid"`
	Username   string    `db:"username"`
	TokenValue string    `db:"token_value"`
	LastUsed   time.Time `db:"last_used"`
}

// RememberMeCookie содержит готовое к выдаче значение remember-me куки
// swagger:model
type RememberMeCookie struct {
	// Закодированное значение куки (base64 от series:tokenValue)
	// example: c2VyaWVzLTE6dG9rZW4tMQ==
	Value string `json:"value"`

	// Время жизни куки
	MaxAge time.Duration `json:"max_age"`
}
