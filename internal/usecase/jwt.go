package usecase

import (
	"fmt"
	"time"

	"github.com/convoo/convoo-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the lifetime of a session JWT and its cookie.
const SessionTTL = 7 * 24 * time.Hour

func signSessionToken(key []byte, user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(SessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}
