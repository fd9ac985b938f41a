package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/deadstock-backend/api/middleware"
	"github.com/angelmondragon/deadstock-backend/api/responses"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

func requireSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (session.Context, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok || sess.ID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session required"))
		return session.Context{}, false
	}
	return sess, true
}

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]string{key: "must be a positive integer"})
	}
	return id, nil
}
