package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/config"
	"github.com/BarkinBalci/measurement-relay/internal/dispatch"
	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/dto"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
	"github.com/BarkinBalci/measurement-relay/internal/queue"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
)

// ErrInvalidMetricsQuery is wrapped by metrics query validation failures
var ErrInvalidMetricsQuery = errors.New("invalid metrics query")

const maxHourlyRange = 90 * 24 * 3600

// EventService represents event service
type EventService struct {
	collector  *measurement.Collector
	dispatcher dispatch.HitDispatcher
	publisher  queue.QueuePublisher
	repository repository.HitRepository
	mode       string
	log        *zap.Logger
}

// NewEventService creates a new event service. In sync mode events are
// dispatched inline and publisher may be nil; in queue mode they are
// published for the consumer and dispatcher may be nil.
func NewEventService(
	collector *measurement.Collector,
	dispatcher dispatch.HitDispatcher,
	publisher queue.QueuePublisher,
	repo repository.HitRepository,
	mode string,
	log *zap.Logger,
) *EventService {
	return &EventService{
		collector:  collector,
		dispatcher: dispatcher,
		publisher:  publisher,
		repository: repo,
		mode:       mode,
		log:        log,
	}
}

// computeEventID generates a deterministic event ID based on event content
// Uses SHA-256 hash of: event_type|timestamp|visitor_id|session_id|event_name|page_url
func computeEventID(event *domain.Event) string {
	data := fmt.Sprintf("%s|%d|%s|%s|%s|%s",
		event.Type,
		event.Timestamp,
		event.Context.User.EdgeeID,
		event.Context.Session.SessionID,
		measurement.EventName(event),
		event.Context.Page.URL,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// prepare validates the event, assigns its id and translates it
func (s *EventService) prepare(req *dto.CollectRequest, eventType domain.EventType) (*measurement.Request, error) {
	event := &req.Event

	currentTime := time.Now().Unix()
	if event.Timestamp > currentTime+1 {
		s.log.Warn("Timestamp validation failed: future timestamp",
			zap.Int64("event_timestamp", event.Timestamp),
			zap.Int64("current_time", currentTime),
			zap.String("event_type", string(event.Type)))
		return nil, &measurement.ValidationError{
			Field:  "timestamp",
			Reason: fmt.Sprintf("timestamp cannot be in the future: %d > %d", event.Timestamp, currentTime),
		}
	}

	if event.UUID == "" {
		event.UUID = computeEventID(event)
	}

	settings := measurement.Settings(req.Settings)

	var (
		out *measurement.Request
		err error
	)
	switch eventType {
	case domain.EventTypePage:
		out, err = s.collector.Page(event, settings)
	case domain.EventTypeTrack:
		out, err = s.collector.Track(event, settings)
	case domain.EventTypeUser:
		out, err = s.collector.Identify(event, settings)
	default:
		out, err = s.collector.Handle(event, settings)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

// process translates the event and either publishes it or dispatches it.
// The returned hit is nil in queue mode.
func (s *EventService) process(ctx context.Context, req *dto.CollectRequest, eventType domain.EventType) (*dto.CollectResponse, *domain.Hit, error) {
	collectorReq, err := s.prepare(req, eventType)
	if err != nil {
		return nil, nil, err
	}

	event := &req.Event

	if s.mode == config.ModeQueue {
		queued := &domain.QueuedEvent{Event: *event, Settings: req.Settings}
		if err := s.publisher.PublishEvent(ctx, queued, event.UUID); err != nil {
			return nil, nil, fmt.Errorf("failed to publish event to queue: %w", err)
		}
		return &dto.CollectResponse{EventID: event.UUID, Status: dto.StatusAccepted}, nil, nil
	}

	hit := s.dispatcher.Dispatch(ctx, event, measurement.Settings(req.Settings), collectorReq)

	resp := &dto.CollectResponse{
		EventID:         event.UUID,
		Status:          dto.StatusDelivered,
		CollectorStatus: hit.Status,
	}
	if !hit.Delivered() {
		resp.Status = dto.StatusFailed
		resp.Error = hit.Error
	}

	return resp, hit, nil
}

// ProcessEvent processes a single event
func (s *EventService) ProcessEvent(ctx context.Context, req *dto.CollectRequest, eventType domain.EventType) (*dto.CollectResponse, error) {
	resp, hit, err := s.process(ctx, req, eventType)
	if err != nil {
		return nil, err
	}

	if hit != nil {
		s.recordHits(ctx, []*domain.Hit{hit})
	}

	return resp, nil
}

// ProcessBulkEvents validates and processes multiple events
func (s *EventService) ProcessBulkEvents(ctx context.Context, reqs []dto.CollectRequest) ([]string, []string, error) {
	var eventIDs []string
	var errs []string
	var hits []*domain.Hit

	for i := range reqs {
		resp, hit, err := s.process(ctx, &reqs[i], "")
		if err != nil {
			errs = append(errs, fmt.Sprintf("event %d: %s", i, err.Error()))
			s.log.Warn("Failed to process event in bulk",
				zap.Int("index", i),
				zap.Error(err),
				zap.String("event_type", string(reqs[i].Event.Type)))
			continue
		}
		eventIDs = append(eventIDs, resp.EventID)
		if hit != nil {
			hits = append(hits, hit)
		}
	}

	s.recordHits(ctx, hits)

	return eventIDs, errs, nil
}

// Preview translates an event without sending it
func (s *EventService) Preview(req *dto.CollectRequest, eventType domain.EventType) (*measurement.Request, error) {
	return s.prepare(req, eventType)
}

// recordHits stores hits in the hit log. A failing hit log never fails the
// request that produced the hits.
func (s *EventService) recordHits(ctx context.Context, hits []*domain.Hit) {
	if len(hits) == 0 {
		return
	}

	inserted, err := s.repository.InsertBatch(ctx, hits)
	if err != nil {
		s.log.Error("Failed to record hits",
			zap.Error(err),
			zap.Int("hit_count", len(hits)))
		return
	}

	s.log.Debug("Hits recorded", zap.Int("count", inserted))
}

// GetMetrics retrieves aggregated hit metrics from the repository
func (s *EventService) GetMetrics(ctx context.Context, req *dto.GetMetricsRequest) (*dto.GetMetricsResponse, error) {
	if req.From > req.To {
		s.log.Warn("Invalid time range for metrics",
			zap.Int64("from", req.From),
			zap.Int64("to", req.To))
		return nil, fmt.Errorf("%w: from timestamp must be less than or equal to to timestamp", ErrInvalidMetricsQuery)
	}

	if req.GroupBy != "" {
		if !repository.ValidGroupBy(req.GroupBy) {
			s.log.Warn("Invalid group_by value",
				zap.String("group_by", req.GroupBy))
			return nil, fmt.Errorf("%w: invalid group_by value: %s (supported: event_type, status, hour, day)", ErrInvalidMetricsQuery, req.GroupBy)
		}

		rangeSeconds := req.To - req.From
		if req.GroupBy == repository.GroupByHour && rangeSeconds > maxHourlyRange {
			s.log.Warn("Large time range for hourly grouping",
				zap.Int64("range_days", rangeSeconds/(24*3600)))
			return nil, fmt.Errorf("%w: time range too large for hourly grouping (max 90 days, got %d days)", ErrInvalidMetricsQuery, rangeSeconds/(24*3600))
		}
	}

	query := repository.MetricsQuery{
		TrackingID: req.TrackingID,
		EventName:  req.EventName,
		From:       req.From,
		To:         req.To,
		GroupBy:    req.GroupBy,
	}

	s.log.Info("Querying metrics",
		zap.String("tracking_id", req.TrackingID),
		zap.String("event_name", req.EventName),
		zap.Int64("from", req.From),
		zap.Int64("to", req.To),
		zap.String("group_by", req.GroupBy))

	result, err := s.repository.GetMetrics(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics from repository: %w", err)
	}

	response := &dto.GetMetricsResponse{
		TrackingID:     req.TrackingID,
		EventName:      req.EventName,
		From:           req.From,
		To:             req.To,
		TotalCount:     result.TotalCount,
		DeliveredCount: result.DeliveredCount,
		UniqueClients:  result.UniqueClients,
		GroupBy:        req.GroupBy,
		Groups:         make([]dto.MetricsGroupData, 0, len(result.Groups)),
	}

	for _, group := range result.Groups {
		response.Groups = append(response.Groups, dto.MetricsGroupData{
			GroupValue:     group.GroupValue,
			TotalCount:     group.TotalCount,
			DeliveredCount: group.DeliveredCount,
		})
	}

	return response, nil
}
