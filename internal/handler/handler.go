package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/BarkinBalci/measurement-relay/docs"
	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/dto"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
	"github.com/BarkinBalci/measurement-relay/internal/service"
)

type Handler struct {
	eventService service.EventServicer
	router       *gin.Engine
	log          *zap.Logger
}

func NewHandler(eventService service.EventServicer, log *zap.Logger) *Handler {
	h := &Handler{
		eventService: eventService,
		router:       gin.Default(),
		log:          log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := h.router.Group("/v1")
	v1.POST("/page", h.collect(domain.EventTypePage))
	v1.POST("/track", h.collect(domain.EventTypeTrack))
	v1.POST("/identify", h.collect(domain.EventTypeUser))
	v1.POST("/events", h.collect(""))
	v1.POST("/events/bulk", h.collectBulk)
	v1.POST("/events/preview", h.preview)
	v1.GET("/metrics", h.getMetrics)
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// writeError maps service errors onto HTTP responses
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		valErr *measurement.ValidationError
		cfgErr *measurement.ConfigError
		encErr *measurement.EncodingError
	)

	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "config_error", Message: err.Error()})
	case errors.As(err, &encErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: "encoding_error", Message: err.Error()})
	case errors.Is(err, service.ErrInvalidMetricsQuery):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: err.Error()})
	case errors.Is(err, repository.ErrHitLogDisabled):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "hit_log_disabled", Message: err.Error()})
	default:
		h.log.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}

func collectStatusCode(status string) int {
	switch status {
	case dto.StatusDelivered:
		return http.StatusOK
	case dto.StatusFailed:
		return http.StatusBadGateway
	default:
		return http.StatusAccepted
	}
}

// collect handles POST /v1/page, /v1/track, /v1/identify and /v1/events.
// An empty eventType routes by the event's own type.
// @Summary Collect a single event
// @Description Translate an event into a Measurement Protocol hit and dispatch or enqueue it
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.CollectRequest true "Event and destination settings"
// @Success 200 {object} dto.CollectResponse
// @Success 202 {object} dto.CollectResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.CollectResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/events [post]
// @Router /v1/page [post]
// @Router /v1/track [post]
// @Router /v1/identify [post]
func (h *Handler) collect(eventType domain.EventType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CollectRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			h.log.Warn("Invalid collect request",
				zap.Error(err),
				zap.String("event_type", string(req.Event.Type)))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}

		resp, err := h.eventService.ProcessEvent(c.Request.Context(), &req, eventType)
		if err != nil {
			h.log.Warn("Failed to process event",
				zap.Error(err),
				zap.String("event_type", string(req.Event.Type)))
			h.writeError(c, err)
			return
		}

		h.log.Info("Event processed",
			zap.String("event_id", resp.EventID),
			zap.String("status", resp.Status),
			zap.Int32("collector_status", resp.CollectorStatus))

		c.JSON(collectStatusCode(resp.Status), resp)
	}
}

// collectBulk handles POST /v1/events/bulk
// @Summary Collect multiple events
// @Description Translate and dispatch or enqueue up to 1000 events
// @Tags events
// @Accept json
// @Produce json
// @Param events body dto.CollectBulkRequest true "Bulk events"
// @Success 202 {object} dto.CollectBulkResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/events/bulk [post]
func (h *Handler) collectBulk(c *gin.Context) {
	var bulkRequest dto.CollectBulkRequest

	if err := c.ShouldBindJSON(&bulkRequest); err != nil {
		h.log.Warn("Invalid bulk collect request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	eventIDs, errs, err := h.eventService.ProcessBulkEvents(c.Request.Context(), bulkRequest.Events)
	if err != nil {
		h.log.Error("Failed to process bulk events",
			zap.Error(err),
			zap.Int("event_count", len(bulkRequest.Events)))
		h.writeError(c, err)
		return
	}

	accepted := len(eventIDs)
	rejected := len(errs)

	h.log.Info("Bulk events processed",
		zap.Int("accepted", accepted),
		zap.Int("rejected", rejected),
		zap.Int("total", len(bulkRequest.Events)))

	c.JSON(http.StatusAccepted, dto.CollectBulkResponse{
		Accepted: accepted,
		Rejected: rejected,
		EventIDs: eventIDs,
		Errors:   errs,
	})
}

// preview handles POST /v1/events/preview
// @Summary Preview the collector request
// @Description Translate an event and return the request descriptor without sending it
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.CollectRequest true "Event and destination settings"
// @Success 200 {object} measurement.Request
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/events/preview [post]
func (h *Handler) preview(c *gin.Context) {
	var req dto.CollectRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	out, err := h.eventService.Preview(&req, "")
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// getMetrics handles GET /v1/metrics
// @Summary Get hit log metrics
// @Description Retrieve aggregated dispatch metrics with optional grouping by event type, status, hour, or day
// @Tags metrics
// @Produce json
// @Param tracking_id query string false "Measurement id to filter by" example:"G-XXXXXXXXXX"
// @Param event_name query string false "Event name to filter by" example:"purchase"
// @Param from query int true "Start timestamp (Unix epoch)" example:"1723475612"
// @Param to query int true "End timestamp (Unix epoch)" example:"1723562012"
// @Param group_by query string false "Field to group by" Enums(event_type, status, hour, day)
// @Success 200 {object} dto.GetMetricsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/metrics [get]
func (h *Handler) getMetrics(c *gin.Context) {
	var req dto.GetMetricsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid metrics request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.eventService.GetMetrics(c.Request.Context(), &req)
	if err != nil {
		h.log.Warn("Failed to get metrics",
			zap.Error(err),
			zap.String("tracking_id", req.TrackingID),
			zap.Int64("from", req.From),
			zap.Int64("to", req.To))
		h.writeError(c, err)
		return
	}

	h.log.Info("Metrics retrieved",
		zap.String("tracking_id", req.TrackingID),
		zap.Uint64("total_count", response.TotalCount),
		zap.Uint64("delivered_count", response.DeliveredCount))

	c.JSON(http.StatusOK, response)
}
