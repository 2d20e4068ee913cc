package consumer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/measurement"
)

func TestJSONMessageParser_Parse(t *testing.T) {
	body := []byte(`{
		"event": {
			"uuid": "evt-1",
			"timestamp": 1766702552,
			"event_type": "track",
			"data": {"track": {"name": "purchase", "properties": [{"key": "value", "value": "9.99"}]}},
			"context": {"user": {"edgee_id": "be9f76b3-2c50-4d12-b14c-85c343745691"}},
			"consent": "granted"
		},
		"settings": {"ga_measurement_id": "G-TEST123"}
	}`)

	message, err := NewJSONMessageParser().Parse(body)

	require.NoError(t, err)
	assert.Equal(t, "evt-1", message.Event.UUID)
	assert.Equal(t, domain.EventTypeTrack, message.Event.Type)
	require.NotNil(t, message.Event.Data.Track)
	assert.Equal(t, "purchase", message.Event.Data.Track.Name)
	assert.Equal(t, domain.Properties{{Key: "value", Value: "9.99"}}, message.Event.Data.Track.Properties)
	require.NotNil(t, message.Event.Consent)
	assert.Equal(t, domain.ConsentGranted, *message.Event.Consent)
	assert.Equal(t, "G-TEST123", message.Settings[measurement.SettingMeasurementID])
}

func TestJSONMessageParser_Parse_InvalidJSON(t *testing.T) {
	message, err := NewJSONMessageParser().Parse([]byte(`{invalid}`))

	assert.Nil(t, message)
	assert.ErrorContains(t, err, "failed to unmarshal message body")
}

func TestJSONMessageParser_Parse_MissingEventType(t *testing.T) {
	message, err := NewJSONMessageParser().Parse([]byte(`{"event": {"uuid": "evt-1"}, "settings": {}}`))

	assert.Nil(t, message)
	assert.ErrorContains(t, err, "no event_type")
}
