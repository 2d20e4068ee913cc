package measurement

import (
	"fmt"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// Collector turns events into collector request descriptors. It is safe for
// concurrent use.
type Collector struct {
	builder  *Builder
	endpoint string
}

// NewCollector creates a new collector
func NewCollector(opts ...Option) *Collector {
	o := newOptions(opts)
	return &Collector{
		builder:  &Builder{opts: o},
		endpoint: o.endpoint,
	}
}

// Endpoint returns the collector endpoint requests are addressed to
func (c *Collector) Endpoint() string {
	return c.endpoint
}

// Page translates a page event
func (c *Collector) Page(event *domain.Event, settings Settings) (*Request, error) {
	if err := expectType(event, domain.EventTypePage); err != nil {
		return nil, err
	}
	p, err := c.builder.Page(event, settings)
	if err != nil {
		return nil, err
	}
	return NewRequest(c.endpoint, p)
}

// Track translates a track event
func (c *Collector) Track(event *domain.Event, settings Settings) (*Request, error) {
	if err := expectType(event, domain.EventTypeTrack); err != nil {
		return nil, err
	}
	p, err := c.builder.Track(event, settings)
	if err != nil {
		return nil, err
	}
	return NewRequest(c.endpoint, p)
}

// Identify translates a user event
func (c *Collector) Identify(event *domain.Event, settings Settings) (*Request, error) {
	if err := expectType(event, domain.EventTypeUser); err != nil {
		return nil, err
	}
	p, err := c.builder.Identify(event, settings)
	if err != nil {
		return nil, err
	}
	return NewRequest(c.endpoint, p)
}

// Handle routes event to the entry point matching its type
func (c *Collector) Handle(event *domain.Event, settings Settings) (*Request, error) {
	switch event.Type {
	case domain.EventTypePage:
		return c.Page(event, settings)
	case domain.EventTypeTrack:
		return c.Track(event, settings)
	case domain.EventTypeUser:
		return c.Identify(event, settings)
	default:
		return nil, &ValidationError{Field: "event_type", Reason: fmt.Sprintf("unsupported event type %q", event.Type)}
	}
}

// expectType rejects events whose declared type does not match the entry
// point. An empty type is accepted and the data variant decides.
func expectType(event *domain.Event, want domain.EventType) error {
	if event.Type != "" && event.Type != want {
		return &ValidationError{
			Field:  "event_type",
			Reason: fmt.Sprintf("expected %q event, got %q", want, event.Type),
		}
	}
	return nil
}

// EventName returns the collector event name event is sent under
func EventName(event *domain.Event) string {
	switch event.Type {
	case domain.EventTypePage:
		return pageViewEvent
	case domain.EventTypeUser:
		return identifyEvent
	case domain.EventTypeTrack:
		if event.Data.Track != nil {
			return event.Data.Track.Name
		}
	}
	return ""
}
