package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "nutritrack"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App       AppConfig
	Service   ServiceConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Detection DetectionConfig
	Inventory InventoryConfig
	Cron      CronConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Detection.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NUTRITRACK_APP_ENV" default:"dev"`
	Port         string `envconfig:"NUTRITRACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NUTRITRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NUTRITRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"NUTRITRACK_SERVICE_KIND" default:"api"`
}

// Storage backends selectable via NUTRITRACK_STORAGE_BACKEND.
const (
	StorageBackendMemory = "memory"
	StorageBackendBadger = "badger"
	StorageBackendRedis  = "redis"
	StorageBackendGorm   = "gorm"
)

type StorageConfig struct {
	Backend    string `envconfig:"NUTRITRACK_STORAGE_BACKEND" default:"badger"`
	KeyPrefix  string `envconfig:"NUTRITRACK_STORAGE_KEY_PREFIX" default:"nutrition_app"`
	BadgerPath string `envconfig:"NUTRITRACK_STORAGE_BADGER_PATH" default:"./data/badger"`
	GormDSN    string `envconfig:"NUTRITRACK_STORAGE_GORM_DSN"`
	GormDriver string `envconfig:"NUTRITRACK_STORAGE_GORM_DRIVER" default:"sqlite"`
}

func (s StorageConfig) validate() error {
	switch s.Backend {
	case StorageBackendMemory, StorageBackendBadger, StorageBackendRedis:
	case StorageBackendGorm:
		if s.GormDSN == "" {
			return fmt.Errorf("NUTRITRACK_STORAGE_GORM_DSN is required for the gorm backend")
		}
		if s.GormDriver != "sqlite" && s.GormDriver != "postgres" {
			return fmt.Errorf("unsupported gorm driver %q", s.GormDriver)
		}
	default:
		return fmt.Errorf("unsupported storage backend %q", s.Backend)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"NUTRITRACK_REDIS_URL"`
	Address      string        `envconfig:"NUTRITRACK_REDIS_ADDR"`
	Password     string        `envconfig:"NUTRITRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"NUTRITRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NUTRITRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NUTRITRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NUTRITRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NUTRITRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NUTRITRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Detection backends selectable via NUTRITRACK_DETECTION_BACKEND.
const (
	DetectionBackendStub   = "stub"
	DetectionBackendOpenAI = "openai"
)

type DetectionConfig struct {
	Backend       string  `envconfig:"NUTRITRACK_DETECTION_BACKEND" default:"stub"`
	MinConfidence float64 `envconfig:"NUTRITRACK_DETECTION_MIN_CONFIDENCE" default:"0.5"`
	OpenAIKey     string  `envconfig:"NUTRITRACK_OPENAI_API_KEY"`
	OpenAIModel   string  `envconfig:"NUTRITRACK_OPENAI_MODEL" default:"gpt-4o-mini"`
}

func (d DetectionConfig) validate() error {
	switch d.Backend {
	case DetectionBackendStub:
	case DetectionBackendOpenAI:
		if d.OpenAIKey == "" {
			return fmt.Errorf("NUTRITRACK_OPENAI_API_KEY is required for the openai detection backend")
		}
	default:
		return fmt.Errorf("unsupported detection backend %q", d.Backend)
	}
	if d.MinConfidence < 0 || d.MinConfidence > 1 {
		return fmt.Errorf("detection min confidence must be within [0,1], got %v", d.MinConfidence)
	}
	return nil
}

type InventoryConfig struct {
	ExpiringSoonDays  int `envconfig:"NUTRITRACK_INVENTORY_EXPIRING_SOON_DAYS" default:"3"`
	ExpiringWeekDays  int `envconfig:"NUTRITRACK_INVENTORY_EXPIRING_WEEK_DAYS" default:"7"`
	DefaultLogLimit   int `envconfig:"NUTRITRACK_INVENTORY_DEFAULT_LOG_LIMIT" default:"50"`
	ChangeLogMaxItems int `envconfig:"NUTRITRACK_INVENTORY_CHANGELOG_MAX_ITEMS" default:"1000"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"NUTRITRACK_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"NUTRITRACK_CRON_LOCK_TTL" default:"2h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"NUTRITRACK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
