package middleware

import (
	"context"

	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

type contextKey string

const ctxSession contextKey = "session"

// WithSession stores the loaded session on the request context.
func WithSession(ctx context.Context, sess session.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}

// SessionFromContext returns the session loaded by the Session middleware.
func SessionFromContext(ctx context.Context) (session.Context, bool) {
	if ctx == nil {
		return session.Context{}, false
	}
	sess, ok := ctx.Value(ctxSession).(session.Context)
	return sess, ok
}

func sessionID(ctx context.Context) string {
	sess, _ := SessionFromContext(ctx)
	return sess.ID
}
