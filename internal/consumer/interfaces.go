package consumer

import (
	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into queued events
type MessageParser interface {
	Parse(body []byte) (*domain.QueuedEvent, error)
}
