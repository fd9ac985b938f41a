package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"golang.org/x/crypto/argon2"
)

// MinPasswordLength matches the signup form's minimum.
const MinPasswordLength = 6

var (
	ErrPasswordEmpty    = errors.New("password cannot be blank")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// argonCost is the work factor written into every hash string.
type argonCost struct {
	memoryKB uint32
	passes   uint32
	threads  uint8
	saltLen  uint32
	keyLen   uint32
}

func costFrom(cfg config.PasswordConfig) argonCost {
	return argonCost{
		memoryKB: bounded(cfg.ArgonMemoryKB, 8, 512*1024),
		passes:   bounded(cfg.ArgonTime, 1, 10),
		threads:  uint8(bounded(cfg.ArgonParallelism, 1, 255)),
		saltLen:  bounded(cfg.ArgonSaltLen, 8, 64),
		keyLen:   bounded(cfg.ArgonKeyLen, 16, 64),
	}
}

func (c argonCost) encode(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, c.memoryKB, c.passes, c.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// HashPassword derives an Argon2id key with a fresh salt and returns it in PHC
// form. Registration forwards this string to the register webhook in place of
// the plaintext.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}
	cost := costFrom(cfg)
	salt := make([]byte, cost.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, cost.passes, cost.memoryKB, cost.threads, cost.keyLen)
	return cost.encode(salt, key), nil
}

// CheckPasswordStrength enforces the minimum accepted at registration.
func CheckPasswordStrength(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrPasswordEmpty
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func bounded(value, lo, hi int) uint32 {
	return uint32(min(max(value, lo), hi))
}
