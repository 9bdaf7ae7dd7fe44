package security

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"metal-tracker/internal/model"
)

// DefaultCookieName : имя remember-me куки по умолчанию
const DefaultCookieName = "remember-me"

const cookieDelimiter = ":"

// CookieCodec кодирует и декодирует значение remember-me куки.
// Формат: base64(series + ":" + tokenValue). series и tokenValue сами
// по себе base64url и разделитель содержать не могут.
type CookieCodec struct{}

func NewCookieCodec() *CookieCodec {
	return &CookieCodec{}
}

func (c *CookieCodec) Encode(series string, tokenValue string) string {
	return base64.StdEncoding.EncodeToString([]byte(series + cookieDelimiter + tokenValue))
}

// Decode разбирает значение куки на (series, tokenValue).
// Любой повреждённый вход возвращает ErrInvalidCookie, хранилище при этом
// не затрагивается.
func (c *CookieCodec) Decode(cookieValue string) (string, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(cookieValue)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}

	parts := strings.Split(string(decoded), cookieDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: ожидалась пара series:tokenValue", ErrInvalidCookie)
	}

	return parts[0], parts[1], nil
}

// WriteRememberMeCookie выставляет remember-me куку с обновлённым max-age
func WriteRememberMeCookie(w http.ResponseWriter, name string, cookie *model.RememberMeCookie) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    cookie.Value,
		Path:     "/",
		MaxAge:   int(cookie.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearRememberMeCookie немедленно гасит remember-me куку
func ClearRememberMeCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
