package event

import (
	"testing"
	"time"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{"machine stocked", TypeMachineStocked, true},
		{"restock warning", TypeRestockWarning, true},
		{"purchase completed", TypePurchaseCompleted, true},
		{"purchase rejected", TypePurchaseRejected, true},
		{"state changed", TypeStateChanged, true},
		{"unknown", Type("machine.exploded"), false},
		{"empty", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now()
	evt := NewEvent(TypePurchaseCompleted, "vm-1", map[string]any{"product": "cola"})

	if evt.ID == "" {
		t.Error("expected non-empty ID")
	}
	if evt.CorrelationID == "" || evt.CorrelationID == evt.ID {
		t.Errorf("expected a distinct correlation ID, got %q", evt.CorrelationID)
	}
	if evt.MachineID != "vm-1" {
		t.Errorf("MachineID = %v, want vm-1", evt.MachineID)
	}
	if evt.Timestamp.Before(before) {
		t.Error("timestamp should not precede creation")
	}
	if got := evt.GetPayloadString("product"); got != "cola" {
		t.Errorf("GetPayloadString() = %v, want cola", got)
	}
}

func TestNewEvent_NilPayload(t *testing.T) {
	evt := NewEvent(TypeMachineStocked, "vm-1", nil)
	if evt.Payload == nil {
		t.Fatal("expected payload map to be initialized")
	}
}

func TestNewEventWithCorrelation(t *testing.T) {
	a := NewEventWithCorrelation(TypePurchaseCompleted, "vm-1", nil, "corr-1")
	b := NewEventWithCorrelation(TypeStateChanged, "vm-1", nil, "corr-1")

	if a.CorrelationID != b.CorrelationID {
		t.Errorf("correlation IDs differ: %v vs %v", a.CorrelationID, b.CorrelationID)
	}
	if a.ID == b.ID {
		t.Error("event IDs should be unique")
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypePurchaseCompleted, "vm-1", map[string]any{"paid": 10})
	updated := original.WithPayload("change", 3)

	if _, ok := original.Payload["change"]; ok {
		t.Error("WithPayload should not modify the original event")
	}
	if got := updated.GetPayloadInt("change"); got != 3 {
		t.Errorf("GetPayloadInt(change) = %v, want 3", got)
	}
	if got := updated.GetPayloadInt("paid"); got != 10 {
		t.Errorf("GetPayloadInt(paid) = %v, want 10", got)
	}
	if updated.ID != original.ID {
		t.Error("WithPayload should keep the event ID")
	}
}

func TestEvent_GetPayloadMissingKeys(t *testing.T) {
	evt := NewEvent(TypeRestockWarning, "vm-1", map[string]any{"count": "three"})

	if got := evt.GetPayloadString("missing"); got != "" {
		t.Errorf("GetPayloadString(missing) = %q, want empty", got)
	}
	if got := evt.GetPayloadInt("count"); got != 0 {
		t.Errorf("GetPayloadInt(count) = %v, want 0 for non-numeric value", got)
	}
}
