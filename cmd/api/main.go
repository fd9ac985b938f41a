package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/deadstock-backend/api/routes"
	"github.com/angelmondragon/deadstock-backend/internal/activity"
	"github.com/angelmondragon/deadstock-backend/internal/alerts"
	"github.com/angelmondragon/deadstock-backend/internal/drugs"
	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/marketplace"
	"github.com/angelmondragon/deadstock-backend/internal/offers"
	"github.com/angelmondragon/deadstock-backend/internal/records"
	"github.com/angelmondragon/deadstock-backend/internal/registration"
	"github.com/angelmondragon/deadstock-backend/internal/requests"
	"github.com/angelmondragon/deadstock-backend/internal/viewstate"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/db"
	"github.com/angelmondragon/deadstock-backend/pkg/idgen"
	"github.com/angelmondragon/deadstock-backend/pkg/instance"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/metrics"
	"github.com/angelmondragon/deadstock-backend/pkg/migrate"
	"github.com/angelmondragon/deadstock-backend/pkg/redis"
	"github.com/angelmondragon/deadstock-backend/pkg/session"
	"github.com/angelmondragon/deadstock-backend/pkg/store"
	"github.com/angelmondragon/deadstock-backend/pkg/webhook"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	ids, err := idgen.NewSnowflake(cfg.IDs.SnowflakeNode)
	if err != nil {
		logg.Error(context.Background(), "failed to create id generator", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sender := webhook.NewClient(
		webhook.WithTimeout(cfg.Webhooks.Timeout),
		webhook.WithMetrics(metrics.NewWebhookMetrics(registry)),
	)

	services, err := buildServices(cfg, storeDeps{
		store:    store.New(dbClient.DB()),
		redis:    redisClient,
		sessions: sessionManager,
		sender:   sender,
		ids:      ids,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Gatherer: registry,
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}

type storeDeps struct {
	store    *store.Client
	redis    *redis.Client
	sessions *session.Manager
	sender   *webhook.Client
	ids      idgen.Generator
}

func buildServices(cfg *config.Config, deps storeDeps) (routes.Services, error) {
	classifier := expiry.NewClassifier(cfg.Marketplace.NearExpiryWindow(), expiry.SystemClock)
	offerRepo := offers.NewRepository(deps.store)
	requestRepo := requests.NewRepository(deps.store)

	drugSvc, err := drugs.NewService(drugs.ServiceParams{
		Repo:         drugs.NewRepository(deps.store),
		MinQueryLen:  cfg.Marketplace.DrugSearchMinLen,
		DefaultLimit: cfg.Marketplace.DrugSearchLimit,
	})
	if err != nil {
		return routes.Services{}, err
	}

	offerSvc, err := offers.NewService(offers.ServiceParams{
		Repo:       offerRepo,
		Drugs:      drugSvc,
		Sender:     deps.sender,
		Endpoint:   webhook.Endpoint{Name: "offer", URL: cfg.Webhooks.OfferURL},
		Classifier: classifier,
	})
	if err != nil {
		return routes.Services{}, err
	}

	requestSvc, err := requests.NewService(requests.ServiceParams{
		Repo:     requestRepo,
		Drugs:    drugSvc,
		Sender:   deps.sender,
		Endpoint: webhook.Endpoint{Name: "request", URL: cfg.Webhooks.RequestURL},
	})
	if err != nil {
		return routes.Services{}, err
	}

	registrationSvc, err := registration.NewService(registration.ServiceParams{
		Sessions:         deps.sessions,
		Sender:           deps.sender,
		IDs:              deps.ids,
		RegisterEndpoint: webhook.Endpoint{Name: "register", URL: cfg.Webhooks.RegisterURL},
		ProfileEndpoint:  webhook.Endpoint{Name: "profile", URL: cfg.Webhooks.ProfileURL},
		JWT:              cfg.JWT,
		Password:         cfg.Password,
	})
	if err != nil {
		return routes.Services{}, err
	}

	marketSvc, err := marketplace.NewService(marketplace.ServiceParams{
		Offers:     offerRepo,
		Classifier: classifier,
		Views:      viewstate.NewViews[[]records.Offer](viewstate.WithTTL(cfg.JWT.SessionTTL())),
	})
	if err != nil {
		return routes.Services{}, err
	}

	activitySvc, err := activity.NewService(activity.ServiceParams{
		Offers:     offerRepo,
		Requests:   requestRepo,
		Classifier: classifier,
		Limit:      cfg.Marketplace.ActivityWindow,
	})
	if err != nil {
		return routes.Services{}, err
	}

	alertSvc, err := alerts.NewService(alerts.ServiceParams{
		Offers:     offerRepo,
		Digests:    alerts.NewDigestStore(deps.redis, deps.redis),
		Classifier: classifier,
	})
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Registration: registrationSvc,
		Drugs:        drugSvc,
		Marketplace:  marketSvc,
		Offers:       offerSvc,
		Requests:     requestSvc,
		Activity:     activitySvc,
		Alerts:       alertSvc,
	}, nil
}
