package repository

import (
	"context"
	"errors"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// Supported MetricsQuery.GroupBy values
const (
	GroupByEventType = "event_type"
	GroupByStatus    = "status"
	GroupByHour      = "hour"
	GroupByDay       = "day"
)

// ErrHitLogDisabled is returned by the no-op repository for reads
var ErrHitLogDisabled = errors.New("hit log is disabled")

// MetricsQuery represents a metrics query parameters
type MetricsQuery struct {
	TrackingID string
	EventName  string
	From       int64
	To         int64
	GroupBy    string
}

// MetricsGroupResult represents aggregated metrics for a specific group
type MetricsGroupResult struct {
	GroupValue     string
	TotalCount     uint64
	DeliveredCount uint64
}

// MetricsResult represents the result of a metrics query
type MetricsResult struct {
	TotalCount     uint64
	DeliveredCount uint64
	UniqueClients  uint64
	Groups         []MetricsGroupResult
}

// ValidGroupBy reports whether groupBy is a supported grouping
func ValidGroupBy(groupBy string) bool {
	switch groupBy {
	case GroupByEventType, GroupByStatus, GroupByHour, GroupByDay:
		return true
	}
	return false
}

// HitRepository defines the interface for hit log storage operations
type HitRepository interface {
	// InsertBatch inserts a batch of hits into the storage
	InsertBatch(ctx context.Context, hits []*domain.Hit) (int, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error

	// GetMetrics retrieves aggregated metrics based on the query
	GetMetrics(ctx context.Context, query MetricsQuery) (*MetricsResult, error)
}
