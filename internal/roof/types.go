// Package roof contains the pure control logic for the roll-off roof:
// the state machine, the park interlock, and the motion-timeout cutout.
// This package has NO external dependencies (no GPIO, serial, MQTT, or
// time.Sleep). Time is always injectable via time.Time parameters.
package roof

import "time"

// State represents the roof's position/motion state.
type State string

const (
	StateClosed  State = "CLOSED"
	StateOpen    State = "OPEN"
	StateStopped State = "STOPPED"
	StateOpening State = "OPENING"
	StateClosing State = "CLOSING"
)

// Command is one of the four host commands accepted over the serial link.
type Command string

const (
	CmdOpen  Command = "OPEN"
	CmdClose Command = "CLOSE"
	CmdAbort Command = "ABORT"
	CmdQuery Command = "QUERY"
)

// Reply is a reply word sent back to the host. The empty string means
// no reply is due.
type Reply string

const (
	ReplyOpen      Reply = "OPEN"
	ReplyClosed    Reply = "CLOSED"
	ReplyUnknown   Reply = "UNKNOWN"
	ReplyNotParked Reply = "NOTELESCOPEPARK"
)

// Action is the relay operation a Tick resolved to. The caller executes
// it on the relay driver; the controller itself never touches hardware.
type Action int

const (
	ActionNone Action = iota
	ActionDriveOpen
	ActionDriveClose
	ActionStop
)

// Readings is one fresh sample of all four sensors, already converted
// to logical values (true = asserted / parked). Polarity inversion for
// the active-low inputs happens at the GPIO layer.
type Readings struct {
	OpenLimit  bool
	CloseLimit bool
	RAParked   bool
	DecParked  bool
}

// Input carries a sensor sample and the time it was taken.
type Input struct {
	Readings Readings
	Time     time.Time
}

// EventType identifies a controller event published to telemetry.
type EventType string

const (
	EventOpening            EventType = "OPENING"
	EventClosing            EventType = "CLOSING"
	EventStopped            EventType = "STOPPED"
	EventOpen               EventType = "OPEN"
	EventClosed             EventType = "CLOSED"
	EventSafetyCutout       EventType = "SAFETY_CUTOUT"
	EventInterlockRejection EventType = "INTERLOCK_REJECTED"
)

// Event records a state transition or safety occurrence.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Readings  Readings
}

// EventCounts tracks the number of each occurrence since startup.
type EventCounts struct {
	Opens      int
	Closes     int
	Aborts     int
	Cutouts    int
	Rejections int
}
