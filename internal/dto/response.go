package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"invalid event: data.track.name: event name is required"`
}

// Collect statuses
const (
	StatusAccepted  = "accepted"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// CollectResponse represents the outcome of a single collect request
type CollectResponse struct {
	EventID         string `json:"event_id" example:"8c0f6f2e-7f5b-4a52-9c55-3f0f2d5c0a11"`
	Status          string `json:"status" example:"delivered"`
	CollectorStatus int32  `json:"collector_status,omitempty" example:"204"`
	Error           string `json:"error,omitempty"`
}

// CollectBulkResponse represents the outcome of a bulk collect request
type CollectBulkResponse struct {
	Accepted int      `json:"accepted" example:"5"`
	Rejected int      `json:"rejected" example:"0"`
	EventIDs []string `json:"event_ids,omitempty" example:"evt_1,evt_2,evt_3"`
	Errors   []string `json:"errors,omitempty" example:"event 3: invalid event: data.track.name: event name is required"`
}

// MetricsGroupData represents aggregated metrics for a specific group
type MetricsGroupData struct {
	GroupValue     string `json:"group_value" example:"204"`
	TotalCount     uint64 `json:"total_count" example:"1500"`
	DeliveredCount uint64 `json:"delivered_count" example:"1490"`
}

// GetMetricsResponse represents the metrics query response
type GetMetricsResponse struct {
	TrackingID     string             `json:"tracking_id,omitempty" example:"G-XXXXXXXXXX"`
	EventName      string             `json:"event_name,omitempty" example:"purchase"`
	From           int64              `json:"from" example:"1723475612"`
	To             int64              `json:"to" example:"1723562012"`
	TotalCount     uint64             `json:"total_count" example:"5000"`
	DeliveredCount uint64             `json:"delivered_count" example:"4980"`
	UniqueClients  uint64             `json:"unique_clients" example:"2500"`
	GroupBy        string             `json:"group_by,omitempty" example:"status"`
	Groups         []MetricsGroupData `json:"groups,omitempty"`
}
