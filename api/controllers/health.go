package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/nutritrack-backend/api/responses"
	"github.com/angelmondragon/nutritrack-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

const envHeader = "X-NutriTrack-Env"

// Pinger is implemented by storage adapters that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the storage backend when it supports pinging; in-memory
// and file-backed adapters are always ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if storage != nil {
			if err := storage.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage not ready"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
