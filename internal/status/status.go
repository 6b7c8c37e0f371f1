// Package status provides a thread-safe status tracker for the
// roof-controller daemon. It is read by the HTTP handlers and the
// websocket status push.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/roof-controller/internal/roof"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Device      string
	Baud        int
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         roof.State
	Readings      roof.Readings
	Counts        roof.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     roof.StateStopped,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the roof state, latest sensor sample, and event counts.
// Called from the run loop on every tick.
func (t *Tracker) Update(state roof.State, readings roof.Readings, counts roof.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Readings = readings
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
