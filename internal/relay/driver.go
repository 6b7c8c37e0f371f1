// Package relay drives the two motor-direction relays. It is the only
// code allowed to touch the direction outputs, and it owns the
// make-before-break sequencing that keeps the two contactors from ever
// being closed at the same time.
package relay

import (
	"fmt"
	"time"
)

// Load-bearing hardware timing. These match the contactor hardware and
// are not tunable at runtime.
const (
	// SettleDelay is how long both outputs are held de-energized before
	// a direction is engaged, so the opposite contactor fully releases.
	SettleDelay = 1 * time.Second

	// PulseWidth is how long a direction output is energized. The
	// driving contactor latches mechanically; it only needs a pulse,
	// and releasing the coil immediately keeps the driver board cool.
	PulseWidth = 800 * time.Millisecond
)

// Writer sets the physical relay outputs. true = energized; active-low
// inversion is the implementation's concern.
type Writer interface {
	SetOpen(energized bool) error
	SetClose(energized bool) error
}

// Driver sequences the direction relays. Each drive call blocks for
// SettleDelay+PulseWidth; the run loop deliberately stalls for that
// window, which is acceptable because the relay operation is atomic
// and safety-critical at that instant.
type Driver struct {
	w     Writer
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates a Driver over the given outputs.
func New(w Writer) *Driver {
	return &Driver{
		w:     w,
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// NewWithClock creates a Driver with injectable sleep and clock, for tests.
func NewWithClock(w Writer, sleep func(time.Duration), now func() time.Time) *Driver {
	return &Driver{w: w, sleep: sleep, now: now}
}

// DriveOpen pulses the open-direction relay. It returns the instant the
// output was energized (the motion epoch).
func (d *Driver) DriveOpen() (time.Time, error) {
	return d.pulse(true)
}

// DriveClose pulses the close-direction relay.
func (d *Driver) DriveClose() (time.Time, error) {
	return d.pulse(false)
}

// Stop de-energizes both outputs immediately. No settle delay: this is
// the abort path and releasing everything at once is always safe.
func (d *Driver) Stop() error {
	if err := d.w.SetOpen(false); err != nil {
		return fmt.Errorf("release open relay: %w", err)
	}
	if err := d.w.SetClose(false); err != nil {
		return fmt.Errorf("release close relay: %w", err)
	}
	return nil
}

func (d *Driver) pulse(open bool) (time.Time, error) {
	// Both directions off first, then settle, so the opposite contactor
	// has fully dropped out before the new one is picked.
	if err := d.Stop(); err != nil {
		return time.Time{}, err
	}
	d.sleep(SettleDelay)

	target, name := d.w.SetClose, "close"
	if open {
		target, name = d.w.SetOpen, "open"
	}

	epoch := d.now()
	if err := target(true); err != nil {
		return time.Time{}, fmt.Errorf("energize %s relay: %w", name, err)
	}
	d.sleep(PulseWidth)
	if err := target(false); err != nil {
		return time.Time{}, fmt.Errorf("release %s relay: %w", name, err)
	}
	return epoch, nil
}
