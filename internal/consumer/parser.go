package consumer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// JSONMessageParser implements MessageParser for JSON-formatted queue messages
type JSONMessageParser struct{}

// NewJSONMessageParser creates a new JSON message parser
func NewJSONMessageParser() *JSONMessageParser {
	return &JSONMessageParser{}
}

// Parse parses a JSON message body into a QueuedEvent
func (p *JSONMessageParser) Parse(body []byte) (*domain.QueuedEvent, error) {
	var message domain.QueuedEvent
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if message.Event.Type == "" {
		return nil, errors.New("message has no event_type")
	}

	return &message, nil
}
