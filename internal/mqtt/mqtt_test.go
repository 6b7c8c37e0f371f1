package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/roof-controller/internal/roof"
)

func TestFormatPayload(t *testing.T) {
	event := roof.Event{
		Timestamp: time.Date(2026, 6, 1, 22, 18, 12, 0, time.UTC),
		Type:      roof.EventOpening,
		State:     roof.StateOpening,
		Readings:  roof.Readings{CloseLimit: true, RAParked: true, DecParked: true},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Roof.Timestamp != "2026-06-01T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Roof.Timestamp)
	}
	if parsed.Roof.Event != "OPENING" {
		t.Errorf("unexpected event: %s", parsed.Roof.Event)
	}
	if parsed.Roof.State != "OPENING" {
		t.Errorf("unexpected state: %s", parsed.Roof.State)
	}
	if !parsed.Roof.Sensors.CloseLimit || parsed.Roof.Sensors.OpenLimit {
		t.Errorf("unexpected sensors: %+v", parsed.Roof.Sensors)
	}
	if !parsed.Roof.Sensors.RAParked || !parsed.Roof.Sensors.DecParked {
		t.Errorf("unexpected park sensors: %+v", parsed.Roof.Sensors)
	}
}

func TestFormatPayloadEventTypes(t *testing.T) {
	tests := []struct {
		eventType roof.EventType
		state     roof.State
	}{
		{roof.EventOpening, roof.StateOpening},
		{roof.EventClosing, roof.StateClosing},
		{roof.EventStopped, roof.StateStopped},
		{roof.EventOpen, roof.StateOpen},
		{roof.EventClosed, roof.StateClosed},
		{roof.EventSafetyCutout, roof.StateStopped},
		{roof.EventInterlockRejection, roof.StateStopped},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			payload, err := FormatPayload(roof.Event{
				Timestamp: time.Now(),
				Type:      tt.eventType,
				State:     tt.state,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Roof.Event != string(tt.eventType) {
				t.Errorf("event: got %s, want %s", parsed.Roof.Event, tt.eventType)
			}
			if parsed.Roof.State != string(tt.state) {
				t.Errorf("state: got %s, want %s", parsed.Roof.State, tt.state)
			}
		})
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %s, want SHUTDOWN", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %s, want SIGTERM", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := roof.Event{
		Timestamp: time.Now(),
		Type:      roof.EventOpening,
		State:     roof.StateOpening,
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != roof.EventOpening {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	err := f.Publish(roof.Event{Type: roof.EventOpening})
	if err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no events recorded on error, got %d", len(f.Events))
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()

	f.Publish(roof.Event{Type: roof.EventOpening})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.PublishError = errors.New("error")

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events should be cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("system events should be cleared")
	}
	if f.Closed {
		t.Error("closed should be reset")
	}
	if f.PublishError != nil {
		t.Error("error should be cleared")
	}
}

func TestTopics(t *testing.T) {
	if Topic != "observatory/roof/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "observatory/roof/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}
