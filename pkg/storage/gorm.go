package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/nutritrack-backend/pkg/config"
)

// kvEntry is the single table behind the GORM adapter.
type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// GormAdapter stores values in one key/value table through GORM, letting the
// same contract ride on SQLite (local file) or Postgres (shared instance).
type GormAdapter struct {
	conn *gorm.DB
}

// NewGormAdapter opens the configured database and migrates the KV table.
func NewGormAdapter(ctx context.Context, cfg config.StorageConfig) (*GormAdapter, error) {
	if cfg.GormDSN == "" {
		return nil, errors.New("gorm DSN is required")
	}

	var dialector gorm.Dialector
	switch cfg.GormDriver {
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: cfg.GormDSN, PreferSimpleProtocol: true})
	case "sqlite":
		dialector = sqlite.Open(cfg.GormDSN)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", cfg.GormDriver)
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}

	return &GormAdapter{conn: conn}, nil
}

func (g *GormAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := g.conn.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (g *GormAdapter) SetItem(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return g.conn.WithContext(ctx).Save(&entry).Error
}

func (g *GormAdapter) RemoveItem(ctx context.Context, key string) error {
	return g.conn.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}

func (g *GormAdapter) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := g.conn.WithContext(ctx).Model(&kvEntry{}).Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (g *GormAdapter) HasKey(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := g.conn.WithContext(ctx).Model(&kvEntry{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *GormAdapter) Clear(ctx context.Context) error {
	return g.conn.WithContext(ctx).Where("1 = 1").Delete(&kvEntry{}).Error
}

func (g *GormAdapter) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the datasource is reachable; used by the readiness probe.
func (g *GormAdapter) Ping(ctx context.Context) error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
