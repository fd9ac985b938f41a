package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/deadstock-backend/api/responses"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/deadstock-backend/pkg/errors"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Deadstock-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Deadstock-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := []struct {
			name string
			p    Pinger
		}{
			{"database", dbP},
			{"redis", redisP},
		}
		for _, c := range checks {
			if c.p == nil {
				continue
			}
			if err := c.p.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, c.name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
