package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

// RateLimitStore counts attempts in fixed windows.
type RateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitPolicy defines the throttling parameters for a traffic surface.
// Each non-zero limit adds one fixed-window counter.
type RateLimitPolicy struct {
	name         string
	window       time.Duration
	ipLimit      int
	emailLimit   int
	sessionLimit int
}

// NewRegisterRateLimitPolicy throttles account creation per client IP and per
// submitted email.
func NewRegisterRateLimitPolicy(window time.Duration, ipLimit, emailLimit int) RateLimitPolicy {
	return RateLimitPolicy{name: "register", window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

// NewSubmitRateLimitPolicy throttles offer and request writes per session.
func NewSubmitRateLimitPolicy(window time.Duration, sessionLimit int) RateLimitPolicy {
	return RateLimitPolicy{name: "submit", window: window, sessionLimit: sessionLimit}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0 || p.sessionLimit > 0)
}

func (p RateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "default"
	}
	return p.name
}

func (p RateLimitPolicy) scope(kind, value string) string {
	if value == "" {
		return ""
	}
	return p.normalizedName() + ":" + kind + ":" + value
}

// RateLimit enforces the policy's counters. Safe methods are never counted.
func RateLimit(policy RateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			check := func(kind, value string, limit int) bool {
				if limit <= 0 {
					return true
				}
				scope := policy.scope(kind, value)
				if scope == "" {
					return true
				}
				allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(limit), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return false
				}
				if !allowed {
					respondRateLimited(ctx, logg, w, policy, kind, count, limit)
					return false
				}
				return true
			}

			if !check("ip", clientIP(r), policy.ipLimit) {
				return
			}
			if !check("session", sessionID(ctx), policy.sessionLimit) {
				return
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				email := normalizeEmail(extractEmail(body))
				if email != "" && !check("email", hashValue(email), policy.emailLimit) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy RateLimitPolicy, kind string, count int64, limit int) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          kind,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
