package consumer

import (
	"context"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// Envelope wraps a queued event with acknowledgment callbacks. Hit is set
// once the event has been dispatched.
type Envelope struct {
	Message *domain.QueuedEvent
	Hit     *domain.Hit
	// Attempt counts deliveries of the underlying message, starting at 1
	Attempt int
	ack     func(context.Context) error
	nack    func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(message *domain.QueuedEvent, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Message: message,
		Attempt: 1,
		ack:     ack,
		nack:    nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
