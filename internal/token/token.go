// Package token generates verification tokens for the signup flow.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// TTL is how long a verification token stays valid.
const TTL = 24 * time.Hour

// New returns a 64-character hex token from 32 bytes of crypto/rand.
// Hex keeps it URL-safe for the verification link query parameter.
func New() (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
