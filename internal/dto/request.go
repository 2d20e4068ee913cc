package dto

import "github.com/BarkinBalci/measurement-relay/internal/domain"

// CollectRequest represents one event addressed to a destination
type CollectRequest struct {
	Event    domain.Event      `json:"event"`
	Settings map[string]string `json:"settings" binding:"required" example:"ga_measurement_id:G-XXXXXXXXXX"`
}

// CollectBulkRequest represents a bulk collect request
type CollectBulkRequest struct {
	Events []CollectRequest `json:"events" binding:"required,min=1,max=1000,dive"`
}

// GetMetricsRequest represents a hit log metrics query
type GetMetricsRequest struct {
	TrackingID string `form:"tracking_id" example:"G-XXXXXXXXXX"`
	EventName  string `form:"event_name" example:"purchase"`
	From       int64  `form:"from" binding:"required" example:"1723475612"`
	To         int64  `form:"to" binding:"required" example:"1723562012"`
	GroupBy    string `form:"group_by" example:"status"`
}
