package consumer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/dispatch"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

// DispatchConfig configures the dispatch stage
type DispatchConfig struct {
	Workers int
	// MaxAttempts caps deliveries of an event whose collector stays
	// unreachable. The last attempt is recorded as failed instead of retried.
	MaxAttempts int
}

// DispatchStage translates queued events and sends them to the collector
// with a fixed number of workers.
type DispatchStage struct {
	collector   *measurement.Collector
	dispatcher  dispatch.HitDispatcher
	workers     int
	maxAttempts int
	log         *zap.Logger
}

// NewDispatchStage creates a new dispatch stage
func NewDispatchStage(collector *measurement.Collector, dispatcher dispatch.HitDispatcher, config DispatchConfig, log *zap.Logger) *DispatchStage {
	return &DispatchStage{
		collector:   collector,
		dispatcher:  dispatcher,
		workers:     max(config.Workers, 1),
		maxAttempts: max(config.MaxAttempts, 1),
		log:         log,
	}
}

// Start dispatches envelopes from in and forwards them, with Hit set, to out.
// out is closed once every worker has returned.
func (s *DispatchStage) Start(ctx context.Context, in <-chan *Envelope, out chan<- *Envelope) {
	defer close(out)

	var wg sync.WaitGroup
	wg.Add(s.workers)

	for i := 0; i < s.workers; i++ {
		go func() {
			defer wg.Done()
			s.work(ctx, in, out)
		}()
	}

	wg.Wait()
	s.log.Info("Dispatch stage shutting down")
}

func (s *DispatchStage) work(ctx context.Context, in <-chan *Envelope, out chan<- *Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case envelope, ok := <-in:
			if !ok {
				return
			}

			if !s.dispatchEnvelope(ctx, envelope) {
				continue
			}

			// The collector already has this hit; hand it on even during
			// shutdown so the batch writer acks it. The writer drains until
			// out is closed.
			out <- envelope
		}
	}
}

// dispatchEnvelope reports whether the envelope should move on to the hit log
func (s *DispatchStage) dispatchEnvelope(ctx context.Context, envelope *Envelope) bool {
	event := &envelope.Message.Event
	settings := measurement.Settings(envelope.Message.Settings)

	req, err := s.collector.Handle(event, settings)
	if err != nil {
		// Retrying cannot fix an event the builder rejects
		s.log.Warn("Dropping untranslatable event",
			zap.String("event_id", event.UUID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		if err := envelope.Ack(ctx); err != nil {
			s.log.Error("Failed to ack dropped event", zap.Error(err))
		}
		return false
	}

	hit := s.dispatcher.Dispatch(ctx, event, settings, req)

	if hit.Status == 0 {
		if envelope.Attempt < s.maxAttempts {
			// The queue redelivers after the visibility timeout
			if err := envelope.Nack(ctx); err != nil {
				s.log.Error("Failed to nack envelope", zap.Error(err))
			}
			return false
		}
		s.log.Warn("Giving up on unreachable collector",
			zap.String("event_id", event.UUID),
			zap.Int("attempt", envelope.Attempt),
			zap.String("error", hit.Error))
	}

	envelope.Hit = hit
	return true
}
