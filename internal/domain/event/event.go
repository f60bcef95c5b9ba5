package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event raised by a machine operator
type Event struct {
	ID            string         `json:"id"`
	Type          Type           `json:"type"`
	MachineID     string         `json:"machine_id"`
	Payload       map[string]any `json:"payload"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlation_id"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, machineID string, payload map[string]any) *Event {
	return NewEventWithCorrelation(eventType, machineID, payload, uuid.NewString())
}

// NewEventWithCorrelation creates an event linked to a correlation chain,
// e.g. every event raised by one purchase
func NewEventWithCorrelation(eventType Type, machineID string, payload map[string]any, correlationID string) *Event {
	if payload == nil {
		payload = make(map[string]any)
	}
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		MachineID:     machineID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: correlationID,
	}
}

// WithPayload returns a new Event with an added payload key-value pair (immutable operation)
func (e *Event) WithPayload(key string, value any) *Event {
	newPayload := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	cp := *e
	cp.Payload = newPayload
	return &cp
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int value from the payload
func (e *Event) GetPayloadInt(key string) int {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
