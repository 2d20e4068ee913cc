package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

// Dispatcher sends requests through a Sender and records the outcome
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	now    func() time.Time
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(sender Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		log:    log,
		now:    time.Now,
	}
}

// Dispatch sends req once. Transport failures and non-2xx answers are
// recorded on the returned hit rather than returned as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.Event, settings measurement.Settings, req *measurement.Request) *domain.Hit {
	hit := NewHit(event, settings)

	status, err := d.sender.Send(ctx, req, &event.Context.Client)
	hit.DispatchedAt = d.now().UTC()

	switch {
	case err != nil:
		hit.Error = err.Error()
		d.log.Warn("Failed to dispatch hit",
			zap.String("event_id", hit.EventID),
			zap.String("event_name", hit.EventName),
			zap.Error(err))
	case status < 200 || status >= 300:
		hit.Status = int32(status)
		hit.Error = fmt.Sprintf("collector responded %d %s", status, http.StatusText(status))
		d.log.Warn("Collector rejected hit",
			zap.String("event_id", hit.EventID),
			zap.String("event_name", hit.EventName),
			zap.Int("status", status))
	default:
		hit.Status = int32(status)
		d.log.Debug("Hit dispatched",
			zap.String("event_id", hit.EventID),
			zap.String("event_name", hit.EventName),
			zap.Int("status", status))
	}

	return hit
}

// NewHit describes event as it is sent to the collector, without an outcome
func NewHit(event *domain.Event, settings measurement.Settings) *domain.Hit {
	return &domain.Hit{
		EventID:    event.UUID,
		EventType:  string(event.Type),
		EventName:  measurement.EventName(event),
		TrackingID: settings[measurement.SettingMeasurementID],
		ClientID:   measurement.DeriveClientID(event.Context.User.EdgeeID, event.Context.Session.FirstSeen),
	}
}
