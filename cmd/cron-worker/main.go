package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/nutritrack-backend/internal/app"
	"github.com/angelmondragon/nutritrack-backend/internal/cron"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/container"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/metrics"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

const lockKeyFormat = "nutritrack:cron-worker:lock:%s"

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

	adapter, err := app.NewStorageAdapter(context.Background(), cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()

	c := app.BuildContainer(cfg, logg, adapter)
	inventoryService, err := container.ResolveAs[inventory.Service](c, app.TokenInventoryService)
	if err != nil {
		logg.Error(context.Background(), "failed to build inventory service", err)
		os.Exit(1)
	}

	lock, err := newLock(cfg, adapter)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	statusJob, err := cron.NewStatusRefreshJob(cron.StatusRefreshJobParams{
		Logger:    logg,
		Inventory: inventoryService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create status refresh job", err)
		os.Exit(1)
	}
	alertJob, err := cron.NewAlertJob(cron.AlertJobParams{
		Logger:    logg,
		Inventory: inventoryService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alert job", err)
		os.Exit(1)
	}
	retentionJob, err := cron.NewChangeLogRetentionJob(cron.ChangeLogRetentionJobParams{
		Logger:    logg,
		Inventory: inventoryService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create changelog retention job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(statusJob, alertJob, retentionJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"backend":     cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

// newLock uses a shared Redis lock when the storage backend is Redis, so
// multiple workers coordinate. Every other backend is single-process and gets
// an in-process lock.
func newLock(cfg *config.Config, adapter storage.Adapter) (cron.Lock, error) {
	redisAdapter, ok := adapter.(*storage.RedisAdapter)
	if !ok {
		return cron.NewLocalLock(), nil
	}
	return cron.NewRedisLock(redisAdapter, lockKey(cfg.App.Env), cfg.Cron.LockTTL)
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
