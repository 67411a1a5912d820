package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/nutritrack-backend/api/controllers"
	"github.com/angelmondragon/nutritrack-backend/api/routes"
	"github.com/angelmondragon/nutritrack-backend/internal/app"
	"github.com/angelmondragon/nutritrack-backend/internal/detection"
	"github.com/angelmondragon/nutritrack-backend/internal/ingredients"
	"github.com/angelmondragon/nutritrack-backend/internal/inventory"
	"github.com/angelmondragon/nutritrack-backend/internal/recipes"
	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	"github.com/angelmondragon/nutritrack-backend/pkg/container"
	"github.com/angelmondragon/nutritrack-backend/pkg/env"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/metrics"
)

const shutdownGrace = 15 * time.Second

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

	ingredientService, err := container.ResolveAs[ingredients.Service](c, app.TokenIngredientService)
	if err != nil {
		logg.Error(context.Background(), "failed to build ingredient service", err)
		os.Exit(1)
	}
	inventoryService, err := container.ResolveAs[inventory.Service](c, app.TokenInventoryService)
	if err != nil {
		logg.Error(context.Background(), "failed to build inventory service", err)
		os.Exit(1)
	}
	recipeService, err := container.ResolveAs[recipes.Service](c, app.TokenRecipeService)
	if err != nil {
		logg.Error(context.Background(), "failed to build recipe service", err)
		os.Exit(1)
	}
	detectionService, err := container.ResolveAs[detection.Service](c, app.TokenDetectionService)
	if err != nil {
		logg.Error(context.Background(), "failed to build detection service", err)
		os.Exit(1)
	}
	defer func() {
		if err := detectionService.Close(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing detection service", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	var pinger controllers.Pinger
	if p, ok := adapter.(controllers.Pinger); ok {
		pinger = p
	}

	router := routes.NewRouter(routes.RouterParams{
		Config:      cfg,
		Logger:      logg,
		Storage:     pinger,
		Ingredients: ingredientService,
		Inventory:   inventoryService,
		Recipes:     recipeService,
		Detection:   detectionService,
		HTTPMetrics: httpMetrics,
		Registry:    registry,
	})

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Storage.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
		}
	}

	logg.Info(ctx, "api server shutting down gracefully")
}
