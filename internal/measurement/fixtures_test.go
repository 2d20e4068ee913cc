package measurement

import (
	"math/rand/v2"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

const (
	testMeasurementID = "G-TEST123"
	testVisitorUUID   = "be9f76b3-2c50-4d12-b14c-85c343745691"
	testEventUUID     = "8c0f6f2e-7f5b-4a52-9c55-3f0f2d5c0a11"
	testFirstSeen     = int64(1723475000)
	testLastSeen      = int64(1723475612)
)

func testSettings() Settings {
	return Settings{SettingMeasurementID: testMeasurementID}
}

func testCollector(opts ...Option) *Collector {
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	return NewCollector(opts...)
}

func granted() *domain.Consent {
	c := domain.ConsentGranted
	return &c
}

func samplePageData() *domain.PageData {
	return &domain.PageData{
		Name:     "page name",
		Category: "category",
		Keywords: []string{"value1", "value2"},
		Title:    "page title",
		URL:      "https://example.com/full-url",
		Path:     "/full-url",
		Search:   "?test=1",
		Referrer: "https://example.com/another-page",
		Properties: domain.Properties{
			{Key: "prop1", Value: "value1"},
			{Key: "prop2", Value: "10"},
			{Key: "currency", Value: "USD"},
		},
	}
}

func sampleContext() domain.Context {
	return domain.Context{
		Page: *samplePageData(),
		User: domain.UserData{
			UserID:      "123",
			AnonymousID: "456",
			EdgeeID:     testVisitorUUID,
			Properties: domain.Properties{
				{Key: "prop1", Value: "value1"},
				{Key: "prop2", Value: "10"},
			},
		},
		Client: domain.Client{
			IP:                       "192.168.0.1",
			Locale:                   "fr-fr",
			UserAgent:                "Mozilla/5.0",
			UserAgentArchitecture:    "arm",
			UserAgentBitness:         "64",
			UserAgentFullVersionList: "Chromium;128.0.6613.138",
			UserAgentMobile:          "0",
			UserAgentModel:           "Pixel",
			OSName:                   "macOS",
			OSVersion:                "14.6.1",
			ScreenWidth:              1024,
			ScreenHeight:             768,
			CountryCode:              "FR",
		},
		Campaign: domain.Campaign{
			Name:   "summer",
			Source: "newsletter",
			Medium: "email",
		},
		Session: domain.Session{
			SessionID:    "1723475000",
			SessionCount: 2,
			SessionStart: true,
			FirstSeen:    testFirstSeen,
			LastSeen:     testLastSeen,
		},
	}
}

func samplePageEvent() *domain.Event {
	return &domain.Event{
		UUID:    testEventUUID,
		Type:    domain.EventTypePage,
		Data:    domain.Data{Page: samplePageData()},
		Context: sampleContext(),
		Consent: granted(),
	}
}

func sampleTrackEvent(name string, products ...domain.Properties) *domain.Event {
	return &domain.Event{
		UUID: testEventUUID,
		Type: domain.EventTypeTrack,
		Data: domain.Data{Track: &domain.TrackData{
			Name: name,
			Properties: domain.Properties{
				{Key: "prop1", Value: "value1"},
				{Key: "prop2", Value: "10"},
				{Key: "currency", Value: "USD"},
			},
			Products: products,
		}},
		Context: sampleContext(),
	}
}

func sampleUserEvent(userID, anonymousID string) *domain.Event {
	return &domain.Event{
		UUID: testEventUUID,
		Type: domain.EventTypeUser,
		Data: domain.Data{User: &domain.UserData{
			UserID:      userID,
			AnonymousID: anonymousID,
			EdgeeID:     testVisitorUUID,
			Properties: domain.Properties{
				{Key: "plan name", Value: "gold"},
				{Key: "age", Value: "30"},
			},
		}},
		Context: sampleContext(),
	}
}

// queryOf parses the query string of a request descriptor URL
func queryOf(t *testing.T, req *Request) (string, url.Values) {
	t.Helper()
	require.True(t, strings.HasPrefix(req.URL, DefaultEndpoint+"?"), "unexpected url %s", req.URL)

	raw := strings.TrimPrefix(req.URL, DefaultEndpoint+"?")
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return raw, values
}
