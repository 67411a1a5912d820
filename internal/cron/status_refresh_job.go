package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

type statusRefresher interface {
	RefreshItemStatuses(ctx context.Context) (int, error)
}

// StatusRefreshJobParams configure the inventory status refresh job.
type StatusRefreshJobParams struct {
	Logger    *logger.Logger
	Inventory statusRefresher
}

// NewStatusRefreshJob re-derives every inventory item's status on schedule so
// stored statuses never drift far from the clock.
func NewStatusRefreshJob(params StatusRefreshJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &statusRefreshJob{logg: params.Logger, inventory: params.Inventory}, nil
}

type statusRefreshJob struct {
	logg      *logger.Logger
	inventory statusRefresher
}

func (j *statusRefreshJob) Name() string { return "inventory-status-refresh" }

func (j *statusRefreshJob) Run(ctx context.Context) error {
	changed, err := j.inventory.RefreshItemStatuses(ctx)
	if err != nil {
		return fmt.Errorf("status refresh: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "items_changed", changed)
	j.logg.Info(logCtx, "inventory status refresh complete")
	return nil
}
