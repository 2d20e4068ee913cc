package dispatch

import (
	"context"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

// Sender executes collector request descriptors
type Sender interface {
	// Send performs req once and returns the collector's status code.
	// client supplies the forwarded visitor headers and may be nil.
	Send(ctx context.Context, req *measurement.Request, client *domain.Client) (int, error)
}

// HitDispatcher sends translated events and reports the outcome as a hit
type HitDispatcher interface {
	Dispatch(ctx context.Context, event *domain.Event, settings measurement.Settings, req *measurement.Request) *domain.Hit
}
