//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPort owns all of the controller's GPIO lines on actual hardware.
type RealPort struct {
	chip *gpiocdev.Chip

	openLimit  *gpiocdev.Line
	closeLimit *gpiocdev.Line
	raPark     *gpiocdev.Line
	decPark    *gpiocdev.Line

	openRelay  *gpiocdev.Line
	closeRelay *gpiocdev.Line
	led        *gpiocdev.Line
}

// NewRealPort requests all lines from gpiochip0. The sensor inputs use
// pull-ups because the switches and park sensors pull to ground when
// asserted. The relay outputs are requested high (de-energized for the
// active-low relay board) so nothing moves at startup.
func NewRealPort() (*RealPort, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &RealPort{chip: chip}

	inputs := []struct {
		pin  int
		dest **gpiocdev.Line
		name string
	}{
		{PinOpenLimit, &p.openLimit, "open limit"},
		{PinCloseLimit, &p.closeLimit, "close limit"},
		{PinRAPark, &p.raPark, "RA park"},
		{PinDecPark, &p.decPark, "DEC park"},
	}
	for _, in := range inputs {
		line, err := chip.RequestLine(in.pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", in.name, in.pin, err)
		}
		*in.dest = line
	}

	outputs := []struct {
		pin  int
		dest **gpiocdev.Line
		name string
		init int
	}{
		{PinOpenRelay, &p.openRelay, "open relay", 1},
		{PinCloseRelay, &p.closeRelay, "close relay", 1},
		{PinLED, &p.led, "status LED", 0},
	}
	for _, out := range outputs {
		line, err := chip.RequestLine(out.pin, gpiocdev.AsOutput(out.init))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", out.name, out.pin, err)
		}
		*out.dest = line
	}

	return p, nil
}

// Read samples all four sensor inputs fresh.
// Inverts raw values: raw low (0) = asserted/parked.
func (p *RealPort) Read() (Readings, error) {
	var r Readings

	reads := []struct {
		line *gpiocdev.Line
		dest *bool
		name string
	}{
		{p.openLimit, &r.OpenLimit, "open limit"},
		{p.closeLimit, &r.CloseLimit, "close limit"},
		{p.raPark, &r.RAParked, "RA park"},
		{p.decPark, &r.DecParked, "DEC park"},
	}
	for _, rd := range reads {
		raw, err := rd.line.Value()
		if err != nil {
			return Readings{}, fmt.Errorf("read %s pin: %w", rd.name, err)
		}
		*rd.dest = raw == 0
	}
	return r, nil
}

// SetOpen energizes or releases the open-direction relay.
func (p *RealPort) SetOpen(energized bool) error {
	if err := p.openRelay.SetValue(relayLevel(energized)); err != nil {
		return fmt.Errorf("set open relay: %w", err)
	}
	return nil
}

// SetClose energizes or releases the close-direction relay.
func (p *RealPort) SetClose(energized bool) error {
	if err := p.closeRelay.SetValue(relayLevel(energized)); err != nil {
		return fmt.Errorf("set close relay: %w", err)
	}
	return nil
}

// SetLED turns the status LED on or off.
func (p *RealPort) SetLED(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := p.led.SetValue(v); err != nil {
		return fmt.Errorf("set LED: %w", err)
	}
	return nil
}

// relayLevel maps logical energized to the active-low line level.
func relayLevel(energized bool) int {
	if energized {
		return 0
	}
	return 1
}

// Close releases both relays, then all lines and the chip. Outputs are
// reconfigured to input with pull-up so the relay board sees the same
// levels during reboot as it does with the daemon running.
func (p *RealPort) Close() error {
	var errs []error

	for _, out := range []*gpiocdev.Line{p.openRelay, p.closeRelay} {
		if out == nil {
			continue
		}
		if err := out.SetValue(1); err != nil {
			errs = append(errs, fmt.Errorf("release relay: %w", err))
		}
		if err := out.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure relay pin: %w", err))
		}
	}

	lines := []*gpiocdev.Line{
		p.openLimit, p.closeLimit, p.raPark, p.decPark,
		p.openRelay, p.closeRelay, p.led,
	}
	for _, line := range lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
