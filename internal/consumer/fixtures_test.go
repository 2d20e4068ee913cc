package consumer

import (
	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

const (
	testTimestamp   int64 = 1766702552
	testQueueURL          = "https://sqs.eu-central-1.amazonaws.com/123/test-queue"
	testTrackingID        = "G-TEST123"
	testVisitorUUID       = "be9f76b3-2c50-4d12-b14c-85c343745691"
)

func queuedTrackEvent(uuid, name string) *domain.QueuedEvent {
	return &domain.QueuedEvent{
		Event: domain.Event{
			UUID:      uuid,
			Timestamp: testTimestamp,
			Type:      domain.EventTypeTrack,
			Data:      domain.Data{Track: &domain.TrackData{Name: name}},
			Context: domain.Context{
				Page:    domain.PageData{URL: "https://example.com/checkout", Title: "Checkout"},
				User:    domain.UserData{EdgeeID: testVisitorUUID},
				Client:  domain.Client{Locale: "en-us", UserAgent: "Mozilla/5.0", IP: "192.168.0.1"},
				Session: domain.Session{SessionID: "1766702000", FirstSeen: 1766700000},
			},
		},
		Settings: map[string]string{measurement.SettingMeasurementID: testTrackingID},
	}
}
