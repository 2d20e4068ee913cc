// Package hitstore opens the hit log backend selected by HIT_STORE_DRIVER.
package hitstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
	"github.com/BarkinBalci/measurement-relay/internal/repository/clickhouse"
	"github.com/BarkinBalci/measurement-relay/internal/repository/postgres"
)

// Open connects to the configured hit log and initializes its schema.
// The returned repository must be closed by the caller.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.HitRepository, error) {
	var repo repository.HitRepository

	switch cfg.HitStore.Driver {
	case config.HitStoreClickHouse:
		client, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create ClickHouse client: %w", err)
		}
		repo = clickhouse.NewRepository(client, log)
	case config.HitStorePostgres:
		client, err := postgres.NewClient(ctx, &cfg.Postgres, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL client: %w", err)
		}
		repo = postgres.NewRepository(client, log)
	case config.HitStoreNone:
		log.Info("Hit log disabled")
		return repository.NewNopRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported hit store driver: %s", cfg.HitStore.Driver)
	}

	if err := repo.InitSchema(ctx); err != nil {
		if closeErr := repo.Close(); closeErr != nil {
			log.Error("Failed to close hit store", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("failed to initialize hit store schema: %w", err)
	}

	return repo, nil
}
