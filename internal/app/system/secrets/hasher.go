// internal/app/system/secrets/hasher.go
//
// Package secrets covers the two credential primitives of the platform:
// argon2id password hashing (with a per-user salt and a deployment-wide
// pepper) and opaque bearer token minting.
package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltBytes is the size of the per-user salt mixed into the hash
	// input. Salts are stored hex-encoded next to the hash.
	SaltBytes = 16
)

// Params are the argon2id cost settings.
type Params struct {
	Time      uint32 // passes over memory
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32 // internal salt embedded in the encoded hash
}

// DefaultParams match the cost profile the corpus was written with.
// Changing them only affects new hashes; Verify reads the cost of each
// stored hash from its own encoding.
var DefaultParams = Params{
	Time:      4,
	MemoryKiB: 102400,
	Threads:   8,
	KeyLen:    64,
	SaltLen:   32,
}

// Hasher derives and checks password hashes. The hash input is the
// concatenation password+salt+pepper, so a leaked corpus alone is not
// enough to mount an offline attack without the pepper.
type Hasher struct {
	params Params
	pepper string
}

// NewHasher returns a Hasher using the given pepper. Zero-valued params
// fields fall back to DefaultParams.
func NewHasher(pepper string, params Params) *Hasher {
	def := DefaultParams
	if params.Time == 0 {
		params.Time = def.Time
	}
	if params.MemoryKiB == 0 {
		params.MemoryKiB = def.MemoryKiB
	}
	if params.Threads == 0 {
		params.Threads = def.Threads
	}
	if params.KeyLen == 0 {
		params.KeyLen = def.KeyLen
	}
	if params.SaltLen == 0 {
		params.SaltLen = def.SaltLen
	}
	return &Hasher{params: params, pepper: pepper}
}

// NewSalt returns a fresh hex-encoded per-user salt.
func NewSalt() (string, error) {
	b := make([]byte, SaltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash derives an encoded argon2id hash of password+salt+pepper. The
// encoding is the standard $argon2id$... form and embeds a fresh random
// internal salt, so hashing the same input twice yields different
// strings that both verify.
func (h *Hasher) Hash(password, salt string) (string, error) {
	internal := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(internal); err != nil {
		return "", fmt.Errorf("generate hash salt: %w", err)
	}
	key := argon2.IDKey(h.input(password, salt), internal,
		h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKiB, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(internal),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password+salt+pepper matches the encoded hash.
// Any parse failure, unknown variant, or mismatch reads as false; the
// caller cannot distinguish a corrupt hash from a wrong password.
func (h *Hasher) Verify(encoded, password, salt string) bool {
	internal, key, params, ok := decodeHash(encoded)
	if !ok {
		return false
	}
	derived := argon2.IDKey(h.input(password, salt), internal,
		params.Time, params.MemoryKiB, params.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(derived, key) == 1
}

func (h *Hasher) input(password, salt string) []byte {
	return []byte(password + salt + h.pepper)
}

func decodeHash(encoded string) (internal, key []byte, params Params, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, params, false
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, params, false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&params.MemoryKiB, &params.Time, &params.Threads); err != nil {
		return nil, nil, params, false
	}
	internal, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, params, false
	}
	return internal, key, params, true
}
