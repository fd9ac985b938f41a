package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

// Session validates the bearer token and loads the session it names. The
// token only identifies the session; it grants nothing by itself.
func Session(cfg config.JWTConfig, loader session.Loader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := session.ParseToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			sess, err := loader.Load(r.Context(), claims.ID)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session expired"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session"))
				return
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID)
				if sess.HasPharmacy() {
					ctx = logg.WithPharmacyID(ctx, sess.PharmacyID)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
