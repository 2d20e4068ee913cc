package service

import (
	"context"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/dto"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

// EventServicer defines the interface for event service operations.
// An empty eventType accepts any event kind; otherwise the event must be of
// that kind.
type EventServicer interface {
	ProcessEvent(ctx context.Context, req *dto.CollectRequest, eventType domain.EventType) (*dto.CollectResponse, error)
	ProcessBulkEvents(ctx context.Context, reqs []dto.CollectRequest) ([]string, []string, error)
	Preview(req *dto.CollectRequest, eventType domain.EventType) (*measurement.Request, error)
	GetMetrics(ctx context.Context, req *dto.GetMetricsRequest) (*dto.GetMetricsResponse, error)
}
