package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/deadstock-backend/internal/alerts"
	"github.com/angelmondragon/deadstock-backend/internal/cron"
	"github.com/angelmondragon/deadstock-backend/internal/expiry"
	"github.com/angelmondragon/deadstock-backend/internal/offers"
	"github.com/angelmondragon/deadstock-backend/pkg/config"
	"github.com/angelmondragon/deadstock-backend/pkg/db"
	"github.com/angelmondragon/deadstock-backend/pkg/instance"
	"github.com/angelmondragon/deadstock-backend/pkg/logger"
	"github.com/angelmondragon/deadstock-backend/pkg/metrics"
	"github.com/angelmondragon/deadstock-backend/pkg/migrate"
	"github.com/angelmondragon/deadstock-backend/pkg/redis"
	"github.com/angelmondragon/deadstock-backend/pkg/store"
)

const lockName = "cron-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockName), instance.GetID(), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	nearExpiry, err := cron.NewNearExpiryJob(cron.NearExpiryJobParams{
		Logger:     logg,
		Offers:     offers.NewRepository(store.New(dbClient.DB())),
		Digests:    alerts.NewDigestStore(redisClient, redisClient),
		Classifier: expiry.NewClassifier(cfg.Marketplace.NearExpiryWindow(), expiry.SystemClock),
		Metrics:    metrics.NewInventoryMetrics(prometheus.DefaultRegisterer),
		DigestTTL:  2 * cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create near-expiry job", err)
		os.Exit(1)
	}

	registry, err := cron.NewRegistry(nearExpiry)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"interval":    service.Interval().String(),
		"instance":    instance.GetID(),
		"jobs":        registry.Names(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
