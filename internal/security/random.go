package security

import (
	"crypto/rand"
	"encoding/base64"

	"metal-tracker/internal/util"
)

// tokenByteLength : 32 байта = 256 бит энтропии на series и на tokenValue
const tokenByteLength = 32

// SecureTokenGenerator генерирует series и tokenValue через crypto/rand.
// Интерфейс ports.TokenGeneratorInterface позволяет подменить генератор
// в тестах детерминированным.
type SecureTokenGenerator struct{}

func NewSecureTokenGenerator() *SecureTokenGenerator {
	return &SecureTokenGenerator{}
}

func (g *SecureTokenGenerator) GenerateSeries() (string, error) {
	return generateRandomString()
}

func (g *SecureTokenGenerator) GenerateTokenValue() (string, error) {
	return generateRandomString()
}

func generateRandomString() (string, error) {
	tokenBytes := make([]byte, tokenByteLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", util.LogError("ошибка генерации случайного токена", err)
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}
