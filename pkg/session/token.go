package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Claims identify a browsing session. The session id travels as the jti.
type Claims struct {
	jwt.RegisteredClaims
}

// MintToken issues a signed token for the session id using the configured TTL.
func MintToken(cfg config.JWTConfig, now time.Time, sessionID string) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.SessionTTL() <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL())),
			ID:        sessionID,
		},
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseToken validates the token and returns its claims.
func ParseToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token carries no session id")
	}
	return claims, nil
}
