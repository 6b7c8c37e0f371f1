// Package led drives the status indicator. The blink pattern is
// derived purely from the current limit-switch readings, on purpose
// independent of the controller's state: an observer at the pier sees
// what the switches see.
package led

import "time"

// Writer sets the status LED output.
type Writer interface {
	SetLED(on bool) error
}

// Blink half-periods.
const (
	SlowBlink = 1 * time.Second
	FastBlink = 200 * time.Millisecond
)

// Interval returns the blink half-period for the given limit readings.
// Zero means solid on (roof fully open). Closed blinks slow; anything
// in between or ambiguous blinks fast.
func Interval(openLimit, closeLimit bool) time.Duration {
	switch {
	case openLimit && !closeLimit:
		return 0
	case closeLimit && !openLimit:
		return SlowBlink
	}
	return FastBlink
}

// Blinker advances the LED pattern from the run loop's ticks.
type Blinker struct {
	w          Writer
	on         bool
	lastToggle time.Time
}

// NewBlinker creates a Blinker over the given output.
func NewBlinker(w Writer) *Blinker {
	return &Blinker{w: w}
}

// Update applies the pattern for the current readings at the given time.
func (b *Blinker) Update(openLimit, closeLimit bool, now time.Time) error {
	interval := Interval(openLimit, closeLimit)
	if interval == 0 {
		if b.on {
			return nil
		}
		b.on = true
		b.lastToggle = now
		return b.w.SetLED(true)
	}

	if now.Sub(b.lastToggle) < interval {
		return nil
	}
	b.on = !b.on
	b.lastToggle = now
	return b.w.SetLED(b.on)
}
