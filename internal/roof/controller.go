package roof

import "time"

// MotionTimeout bounds how long a single open/close motion may run
// without reaching its limit switch. The value matches the roof's worst
// observed travel time with margin; exceeding it means a stuck or
// missing limit signal and forces a stop.
const MotionTimeout = 20 * time.Second

// MotionPermitted reports whether the park interlock allows roof
// motion: both mount axes must be parked inside the roof's sweep.
func MotionPermitted(r Readings) bool {
	return r.RAParked && r.DecParked
}

// QueryReply computes the reply to a QUERY purely from sensor readings.
// The roof state is deliberately not consulted: the host gets what the
// switches say right now. Both-asserted and neither-asserted collapse
// to UNKNOWN.
func QueryReply(r Readings) Reply {
	if !MotionPermitted(r) {
		return ReplyNotParked
	}
	switch {
	case r.OpenLimit && !r.CloseLimit:
		return ReplyOpen
	case r.CloseLimit && !r.OpenLimit:
		return ReplyClosed
	}
	return ReplyUnknown
}

// Controller is the roof state machine. It owns all mutable control
// state and must only be used from the single run-loop goroutine.
type Controller struct {
	// state is the resolved target state; applied is the state whose
	// relay action was last dispatched. They differ only between a
	// command arriving and the next Tick.
	state   State
	applied State

	// motionStart is the epoch of the current motion; meaningful only
	// while state is Opening or Closing.
	motionStart time.Time

	counts EventCounts
}

// NewController returns a controller in the Stopped state. The roof's
// position is unknown at boot; nothing is assumed.
func NewController() *Controller {
	return &Controller{
		state:   StateStopped,
		applied: StateStopped,
	}
}

// State returns the current resolved state.
func (c *Controller) State() State {
	return c.state
}

// Counts returns a copy of the event counters.
func (c *Controller) Counts() EventCounts {
	return c.counts
}

// Apply processes one host command against the given sensor sample.
// It returns the reply due to the host ("" for none) and any telemetry
// events. Relay actions are never taken here; they are resolved by the
// next Tick so that side effects fire exactly once per state change.
func (c *Controller) Apply(cmd Command, in Input) (Reply, []Event) {
	switch cmd {
	case CmdOpen:
		return c.applyMotion(StateOpening, in)
	case CmdClose:
		return c.applyMotion(StateClosing, in)
	case CmdAbort:
		c.state = StateStopped
		return "", nil
	case CmdQuery:
		return QueryReply(in.Readings), nil
	}
	// Unrecognized commands are dropped at the link layer; anything
	// else reaching here is ignored the same way.
	return "", nil
}

func (c *Controller) applyMotion(target State, in Input) (Reply, []Event) {
	var reply Reply
	var events []Event
	if !MotionPermitted(in.Readings) {
		reply = ReplyNotParked
		c.counts.Rejections++
		events = append(events, Event{
			Timestamp: in.Time,
			Type:      EventInterlockRejection,
			State:     c.state,
			Readings:  in.Readings,
		})
	}
	// The interlock result does not gate the transition: the host is
	// warned but motion proceeds, and the host software depends on the
	// reply alone. Do not change this without coordinating a host-side
	// update; see DESIGN.md.
	c.state = target
	return reply, events
}

// Tick advances the state machine for one control cycle: it resolves
// limit-switch arrival and the safety cutout against the fresh sample,
// and if the resolved state differs from the last applied state it
// returns the relay action to execute (exactly once per change).
func (c *Controller) Tick(in Input) (Action, []Event) {
	cutout := false

	// Only a motion that has actually been dispatched can end; a motion
	// still pending dispatch has no epoch yet.
	if c.applied == c.state {
		switch c.state {
		case StateOpening:
			if in.Readings.OpenLimit {
				c.state = StateOpen
			} else if in.Time.Sub(c.motionStart) > MotionTimeout {
				c.state = StateStopped
				cutout = true
			}
		case StateClosing:
			if in.Readings.CloseLimit {
				c.state = StateClosed
			} else if in.Time.Sub(c.motionStart) > MotionTimeout {
				c.state = StateStopped
				cutout = true
			}
		}
	}

	if c.state == c.applied {
		return ActionNone, nil
	}

	action := ActionNone
	var events []Event
	switch c.state {
	case StateOpening:
		action = ActionDriveOpen
		c.motionStart = in.Time
		c.counts.Opens++
		events = append(events, c.event(EventOpening, in))
	case StateClosing:
		action = ActionDriveClose
		c.motionStart = in.Time
		c.counts.Closes++
		events = append(events, c.event(EventClosing, in))
	case StateStopped:
		action = ActionStop
		if cutout {
			c.counts.Cutouts++
			events = append(events, c.event(EventSafetyCutout, in))
		} else {
			c.counts.Aborts++
			events = append(events, c.event(EventStopped, in))
		}
	case StateOpen:
		// Travel ended on the hardware limit; the relay pulse has long
		// since released, so there is nothing to de-energize.
		events = append(events, c.event(EventOpen, in))
	case StateClosed:
		events = append(events, c.event(EventClosed, in))
	}
	c.applied = c.state
	return action, events
}

func (c *Controller) event(t EventType, in Input) Event {
	return Event{
		Timestamp: in.Time,
		Type:      t,
		State:     c.state,
		Readings:  in.Readings,
	}
}
