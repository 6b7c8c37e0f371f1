// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/roof-controller/internal/roof"
)

// Topic is the MQTT topic for roof controller events.
const Topic = "observatory/roof/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "observatory/roof/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a roof event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event roof.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Roof RoofPayload `json:"roof"`
}

// RoofPayload contains the roof event details.
type RoofPayload struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	State     string         `json:"state"`
	Sensors   SensorsPayload `json:"sensors"`
}

// SensorsPayload is the sensor sample attached to every event.
type SensorsPayload struct {
	OpenLimit  bool `json:"open_limit"`
	CloseLimit bool `json:"close_limit"`
	RAParked   bool `json:"ra_parked"`
	DecParked  bool `json:"dec_parked"`
}

// FormatPayload creates the JSON payload for a roof event.
func FormatPayload(event roof.Event) ([]byte, error) {
	payload := Payload{
		Roof: RoofPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     string(event.State),
			Sensors: SensorsPayload{
				OpenLimit:  event.Readings.OpenLimit,
				CloseLimit: event.Readings.CloseLimit,
				RAParked:   event.Readings.RAParked,
				DecParked:  event.Readings.DecParked,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
