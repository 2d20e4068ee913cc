package domain

import "time"

// Hit represents one dispatched collector request stored in the hit log
type Hit struct {
	EventID      string    `ch:"event_id"`
	EventType    string    `ch:"event_type"`
	EventName    string    `ch:"event_name"`
	TrackingID   string    `ch:"tracking_id"`
	ClientID     string    `ch:"client_id"`
	Status       int32     `ch:"status"`
	Error        string    `ch:"error"`
	DispatchedAt time.Time `ch:"dispatched_at"`
	Version      uint64    `ch:"version"`
}

// Delivered reports whether the collector accepted the hit
func (h *Hit) Delivered() bool {
	return h.Status >= 200 && h.Status < 300
}
