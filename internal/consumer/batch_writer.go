package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// BatchWriter batches dispatched hits into the hit log and acknowledges
// their messages
type BatchWriter struct {
	repository repository.HitRepository
	config     BatchWriterConfig
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer
func NewBatchWriter(repo repository.HitRepository, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		repository: repo,
		config:     config,
		log:        log,
	}
}

// Start collects envelopes and flushes them when the batch fills or the
// flush timeout passes. Cancelling ctx flushes what is pending, but Start
// keeps draining until in is closed: envelopes still arriving were already
// sent to the collector and must be acked.
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()
	defer w.log.Info("Batch writer shutting down")

	pending := make([]*Envelope, 0, w.config.MaxBatchSize)
	flush := func(ctx context.Context, reason string) {
		if len(pending) == 0 {
			return
		}
		w.log.Debug("Flushing hits",
			zap.String("reason", reason),
			zap.Int("envelope_count", len(pending)))
		w.processBatch(ctx, pending)
		pending = make([]*Envelope, 0, w.config.MaxBatchSize)
	}

	done := ctx.Done()
	flushCtx := ctx
	stopping := false

	for {
		select {
		case <-done:
			// Shutdown flushes must still reach the store and the queue
			done = nil
			stopping = true
			flushCtx = context.WithoutCancel(ctx)
			flush(flushCtx, "shutdown")

		case envelope, ok := <-in:
			if !ok {
				flush(context.WithoutCancel(ctx), "input closed")
				return
			}

			pending = append(pending, envelope)
			switch {
			case stopping:
				flush(flushCtx, "shutdown")
			case len(pending) >= w.config.MaxBatchSize:
				flush(flushCtx, "batch full")
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			flush(flushCtx, "timeout")
		}
	}
}

// processBatch records the hits and acknowledges every message. The hits
// were already sent to the collector, so a failed insert is logged instead
// of nacked; redelivery would send them twice.
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	hits := make([]*domain.Hit, 0, len(envelopes))
	delivered := 0
	for _, env := range envelopes {
		if env.Hit == nil {
			continue
		}
		hits = append(hits, env.Hit)
		if env.Hit.Delivered() {
			delivered++
		}
	}

	inserted, err := w.repository.InsertBatch(ctx, hits)
	switch {
	case err != nil:
		w.log.Error("Failed to record hits",
			zap.Error(err),
			zap.Int("hit_count", len(hits)))
	case inserted != len(hits):
		w.log.Warn("Partial hit log insert",
			zap.Int("inserted", inserted),
			zap.Int("expected", len(hits)))
	default:
		w.log.Info("Recorded hits",
			zap.Int("delivered", delivered),
			zap.Int("failed", len(hits)-delivered))
	}

	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.Error(err))
		}
	}
}
