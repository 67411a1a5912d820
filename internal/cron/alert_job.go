package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/models"
)

type alertGenerator interface {
	GenerateAlerts(ctx context.Context) ([]models.Alert, error)
}

// AlertJobParams configure the alert generation job.
type AlertJobParams struct {
	Logger    *logger.Logger
	Inventory alertGenerator
}

// NewAlertJob recomputes the expiry and stock alerts on schedule.
func NewAlertJob(params AlertJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &alertJob{logg: params.Logger, inventory: params.Inventory}, nil
}

type alertJob struct {
	logg      *logger.Logger
	inventory alertGenerator
}

func (j *alertJob) Name() string { return "alert-generation" }

func (j *alertJob) Run(ctx context.Context) error {
	batch, err := j.inventory.GenerateAlerts(ctx)
	if err != nil {
		return fmt.Errorf("alert generation: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "alerts_generated", len(batch))
	j.logg.Info(logCtx, "alert generation complete")
	return nil
}
