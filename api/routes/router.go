package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/deadstock-backend/api/controllers"
	"github.com/angelmondragon/deadstock-backend/api/middleware"
	"github.com/angelmondragon/deadstock-backend/internal/activity"
	"github.com/angelmondragon/deadstock-backend/internal/alerts"
	"github.com/angelmondragon/deadstock-backend/internal/drugs"
	"github.com/angelmondragon/deadstock-backend/internal/marketplace"
	"github.com/angelmondragon/deadstock-backend/internal/offers"
	"github.com/angelmondragon/deadstock-backend/internal/registration"
	"github.com/angelmondragon/deadstock-backend/internal/requests"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/redis"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
)

// Services groups the domain services mounted under /api/v1.
type Services struct {
	Registration registration.Service
	Drugs        drugs.Service
	Marketplace  marketplace.Service
	Offers       offers.Service
	Requests     requests.Service
	Activity     activity.Service
	Alerts       alerts.Service
}

// Deps carries the infrastructure the router needs besides the services.
type Deps struct {
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.Loader
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	registerPolicy := middleware.NewRegisterRateLimitPolicy(
		cfg.RateLimit.SubmitWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)
	submitPolicy := middleware.NewSubmitRateLimitPolicy(
		cfg.RateLimit.SubmitWindow,
		cfg.RateLimit.SubmitLimit,
	)

	// A nil *redis.Client must not reach the interface-typed middleware
	// parameters as a non-nil value.
	var (
		counter     middleware.RateLimitStore
		idempotency redis.IdempotencyStore
		redisPinger controllers.Pinger
	)
	if deps.Redis != nil {
		counter = deps.Redis
		idempotency = deps.Redis
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", controllers.Cities())
		r.With(
			middleware.RateLimit(registerPolicy, counter, logg),
			middleware.Idempotency(idempotency, logg),
		).Post("/register", controllers.Register(svc.Registration, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Idempotency(idempotency, logg))

			r.Post("/register/profile", controllers.CompleteProfile(svc.Registration, logg))
			r.Get("/profile", controllers.GetProfile(svc.Registration, logg))
			r.Put("/profile", controllers.UpdateProfile(svc.Registration, logg))
			r.Post("/session/logout", controllers.Logout(svc.Registration, svc.Marketplace, logg))

			r.Get("/drugs/search", controllers.DrugSearch(svc.Drugs, logg))
			r.Get("/marketplace", controllers.MarketplaceBrowse(svc.Marketplace, logg))
			r.Get("/marketplace/view", controllers.MarketplaceView(svc.Marketplace, logg))
			r.Get("/dashboard", controllers.Dashboard(svc.Activity, logg))
			r.Get("/alerts/near-expiry", controllers.NearExpiryAlerts(svc.Alerts, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(submitPolicy, counter, logg))

				r.Get("/offers", controllers.ListOffers(svc.Offers, logg))
				r.Post("/offers", controllers.CreateOffer(svc.Offers, logg))
				r.Delete("/offers/{offerId}", controllers.DeleteOffer(svc.Offers, logg))

				r.Get("/requests", controllers.ListRequests(svc.Requests, logg))
				r.Post("/requests", controllers.CreateRequest(svc.Requests, logg))
				r.Delete("/requests/{requestId}", controllers.DeleteRequest(svc.Requests, logg))
			})
		})
	})

	return r
}
