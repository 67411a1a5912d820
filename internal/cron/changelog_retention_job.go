package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

type changeLogTrimmer interface {
	TrimChangeLog(ctx context.Context) (int, error)
}

// ChangeLogRetentionJobParams configure the change-log retention job.
type ChangeLogRetentionJobParams struct {
	Logger    *logger.Logger
	Inventory changeLogTrimmer
}

// NewChangeLogRetentionJob caps the inventory change log at its configured
// size so the stored document cannot grow without bound.
func NewChangeLogRetentionJob(params ChangeLogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	return &changeLogRetentionJob{logg: params.Logger, inventory: params.Inventory}, nil
}

type changeLogRetentionJob struct {
	logg      *logger.Logger
	inventory changeLogTrimmer
}

func (j *changeLogRetentionJob) Name() string { return "changelog-retention" }

func (j *changeLogRetentionJob) Run(ctx context.Context) error {
	trimmed, err := j.inventory.TrimChangeLog(ctx)
	if err != nil {
		return fmt.Errorf("changelog retention: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "entries_trimmed", trimmed)
	j.logg.Info(logCtx, "changelog retention complete")
	return nil
}
