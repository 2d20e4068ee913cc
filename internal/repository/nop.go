package repository

import (
	"context"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// NopRepository discards hits. It backs HIT_STORE_DRIVER=none.
type NopRepository struct{}

// NewNopRepository creates a repository that stores nothing
func NewNopRepository() *NopRepository {
	return &NopRepository{}
}

func (NopRepository) InsertBatch(_ context.Context, hits []*domain.Hit) (int, error) {
	return len(hits), nil
}

func (NopRepository) InitSchema(context.Context) error { return nil }

func (NopRepository) Ping(context.Context) error { return nil }

func (NopRepository) Close() error { return nil }

func (NopRepository) GetMetrics(context.Context, MetricsQuery) (*MetricsResult, error) {
	return nil, ErrHitLogDisabled
}
