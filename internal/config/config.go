package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	ModeSync  = "sync"
	ModeQueue = "queue"

	HitStoreClickHouse = "clickhouse"
	HitStorePostgres   = "postgres"
	HitStoreNone       = "none"
)

type Config struct {
	Service     Service     `envconfig:"SERVICE"`
	Measurement Measurement `envconfig:"MEASUREMENT"`
	Dispatch    Dispatch    `envconfig:"DISPATCH"`
	SQS         SQS         `envconfig:"SQS"`
	HitStore    HitStore    `envconfig:"HIT_STORE"`
	ClickHouse  ClickHouse  `envconfig:"CLICKHOUSE"`
	Postgres    Postgres    `envconfig:"POSTGRES"`
	Consumer    Consumer    `envconfig:"CONSUMER"`
}

type Service struct {
	Environment string `split_words:"true" required:"true"`
	APIPort     string `split_words:"true" default:"8080"`
	Host        string `split_words:"true" default:"localhost:8080"`
	Mode        string `split_words:"true" default:"sync"`
}

type Measurement struct {
	Endpoint           string `split_words:"true" default:"https://www.google-analytics.com/g/collect"`
	LocationWithSearch bool   `split_words:"true" default:"false"`
}

type Dispatch struct {
	TimeoutSec int `split_words:"true" default:"5"`
}

type SQS struct {
	Endpoint string `split_words:"true"`
	QueueURL string `split_words:"true"`
	Region   string `split_words:"true" default:"eu-central-1"`
}

type HitStore struct {
	Driver string `split_words:"true" default:"clickhouse"`
}

type ClickHouse struct {
	Host               string `split_words:"true" default:"localhost"`
	Port               string `split_words:"true" default:"9000"`
	Database           string `split_words:"true" default:"default"`
	User               string `split_words:"true" default:"default"`
	Password           string `split_words:"true" default:""`
	UseTLS             bool   `split_words:"true" default:"false"`
	MaxOpenConns       int    `split_words:"true" default:"5"`
	MaxIdleConns       int    `split_words:"true" default:"2"`
	ConnMaxLifetimeSec int    `split_words:"true" default:"3600"`
}

type Postgres struct {
	DSN      string `split_words:"true"`
	MaxConns int32  `split_words:"true" default:"5"`
}

type Consumer struct {
	BatchSizeMax    int    `split_words:"true" default:"500"`
	BatchTimeoutSec int    `split_words:"true" default:"10"`
	DispatchWorkers int    `split_words:"true" default:"4"`
	MaxAttempts     int    `split_words:"true" default:"5"`
	HealthCheckPort string `split_words:"true" default:"8081"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks rules that span more than one variable
func (c *Config) Validate() error {
	switch c.Service.Mode {
	case ModeSync:
	case ModeQueue:
		if c.SQS.QueueURL == "" {
			return fmt.Errorf("SQS_QUEUE_URL is required when SERVICE_MODE is %q", ModeQueue)
		}
	default:
		return fmt.Errorf("invalid SERVICE_MODE %q (supported: %s, %s)", c.Service.Mode, ModeSync, ModeQueue)
	}

	switch c.HitStore.Driver {
	case HitStoreClickHouse, HitStoreNone:
	case HitStorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when HIT_STORE_DRIVER is %q", HitStorePostgres)
		}
	default:
		return fmt.Errorf("invalid HIT_STORE_DRIVER %q (supported: %s, %s, %s)",
			c.HitStore.Driver, HitStoreClickHouse, HitStorePostgres, HitStoreNone)
	}

	if c.Dispatch.TimeoutSec <= 0 {
		return fmt.Errorf("DISPATCH_TIMEOUT_SEC must be positive, got %d", c.Dispatch.TimeoutSec)
	}

	if c.Consumer.BatchSizeMax <= 0 {
		return fmt.Errorf("CONSUMER_BATCH_SIZE_MAX must be positive, got %d", c.Consumer.BatchSizeMax)
	}

	if c.Consumer.BatchTimeoutSec <= 0 {
		return fmt.Errorf("CONSUMER_BATCH_TIMEOUT_SEC must be positive, got %d", c.Consumer.BatchTimeoutSec)
	}

	if c.Consumer.DispatchWorkers <= 0 {
		return fmt.Errorf("CONSUMER_DISPATCH_WORKERS must be positive, got %d", c.Consumer.DispatchWorkers)
	}

	if c.Consumer.MaxAttempts <= 0 {
		return fmt.Errorf("CONSUMER_MAX_ATTEMPTS must be positive, got %d", c.Consumer.MaxAttempts)
	}

	return nil
}
