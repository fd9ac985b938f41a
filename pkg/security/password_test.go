package security_test

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/security"
)

var fastCost = config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func TestHashPasswordEmbedsParams(t *testing.T) {
	hash, err := security.HashPassword("pharma-2026", fastCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected hash prefix %q", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("expected 6 segments, got %d in %q", len(parts), hash)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) != 16 {
		t.Fatalf("unexpected salt %q (err=%v)", parts[4], err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) != 32 {
		t.Fatalf("unexpected key %q (err=%v)", parts[5], err)
	}
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := security.HashPassword("pharma-2026", fastCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := security.HashPassword("pharma-2026", fastCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
	if strings.Contains(first, "pharma-2026") {
		t.Fatal("hash must not carry the plaintext")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := security.HashPassword("pharma-2026", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8,t=1,p=1$") {
		t.Fatalf("zero config should clamp to minimum cost, got %q", hash)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", fastCost); !errors.Is(err, security.ErrPasswordEmpty) {
		t.Fatalf("expected ErrPasswordEmpty, got %v", err)
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{name: "too short", password: "12345", want: security.ErrPasswordTooShort},
		{name: "blank", password: "      ", want: security.ErrPasswordEmpty},
		{name: "multi-byte counts runes", password: "صيدلية", want: nil},
		{name: "ok", password: "pharma-2026", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := security.CheckPasswordStrength(tt.password); !errors.Is(err, tt.want) {
				t.Fatalf("CheckPasswordStrength(%q) = %v, want %v", tt.password, err, tt.want)
			}
		})
	}
}
