package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string      `json:"event,omitempty"`
	Reason        string      `json:"reason,omitempty"`
	Roof          string      `json:"roof"`
	Sensors       SensorsJSON `json:"sensors"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          MQTTStatus  `json:"mqtt"`
	Counts        CountsJSON  `json:"event_counts"`
	Config        ConfigJSON  `json:"config"`
}

// SensorsJSON is the JSON representation of the latest sensor sample.
type SensorsJSON struct {
	OpenLimit  bool `json:"open_limit"`
	CloseLimit bool `json:"close_limit"`
	RAParked   bool `json:"ra_parked"`
	DecParked  bool `json:"dec_parked"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Opens      int `json:"opens"`
	Closes     int `json:"closes"`
	Aborts     int `json:"aborts"`
	Cutouts    int `json:"safety_cutouts"`
	Rejections int `json:"interlock_rejections"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Device      string `json:"device"`
	Baud        int    `json:"baud"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		Roof: state,
		Sensors: SensorsJSON{
			OpenLimit:  snap.Readings.OpenLimit,
			CloseLimit: snap.Readings.CloseLimit,
			RAParked:   snap.Readings.RAParked,
			DecParked:  snap.Readings.DecParked,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Opens:      snap.Counts.Opens,
			Closes:     snap.Counts.Closes,
			Aborts:     snap.Counts.Aborts,
			Cutouts:    snap.Counts.Cutouts,
			Rejections: snap.Counts.Rejections,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Device:      snap.Config.Device,
			Baud:        snap.Config.Baud,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoints (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
