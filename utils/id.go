package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const stateBytes = 32

// RandomState sinh giá trị state cho luồng OAuth (32 byte, base64url không padding).
func RandomState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
