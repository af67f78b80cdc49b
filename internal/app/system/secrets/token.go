// internal/app/system/secrets/token.go
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// TokenBytes is the entropy of a bearer token (16 bytes = 32 hex
	// chars = 128 bits).
	TokenBytes = 16
)

// NewToken mints an opaque bearer token of the form "<prefix>_<hex>",
// e.g. "vol_3f8a...". The prefix identifies the account role so logs
// and support tooling can tell token kinds apart; the hex tail is the
// secret.
func NewToken(prefix string) (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return prefix + "_" + hex.EncodeToString(b), nil
}

// TokenPrefix returns the role prefix of a token, or "" when the token
// has no recognizable prefix.
func TokenPrefix(token string) string {
	prefix, _, ok := strings.Cut(token, "_")
	if !ok {
		return ""
	}
	return prefix
}
