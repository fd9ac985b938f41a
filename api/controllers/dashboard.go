package controllers

import (
	"net/http"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/internal/activity"
	"github.com/angelmondragon/deadstock-backend/internal/alerts"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

// Dashboard returns the pharmacy's stats and recent activity.
func Dashboard(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "dashboard")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		dash, err := svc.Load(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}

func NearExpiryAlerts(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "alerts")
			return
		}
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		out, err := svc.NearExpiry(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
