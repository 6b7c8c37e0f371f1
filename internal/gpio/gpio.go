// Package gpio provides the roof controller's hardware ports with
// abstraction for testing. The real implementation uses the Linux GPIO
// character device; the fakes allow testing without hardware.
package gpio

// Readings is one raw-to-logical converted sample of all four inputs.
// true = switch asserted / axis parked. The park sensors and limit
// switches are wired active-low; the inversion happens here so the
// rest of the program only ever sees logical values.
type Readings struct {
	OpenLimit  bool
	CloseLimit bool
	RAParked   bool
	DecParked  bool
}

// Reader samples the four sensor inputs. Every call reads the lines
// fresh; there is deliberately no caching or debouncing at this layer.
type Reader interface {
	Read() (Readings, error)
	Close() error
}

// Pin definitions (BCM numbering). Fixed at build time; the relay board
// and sensor loom are wired to match.
const (
	PinOpenLimit  = 17 // open-travel limit switch, active-low
	PinCloseLimit = 27 // close-travel limit switch, active-low
	PinRAPark     = 22 // RA park sensor, active-low
	PinDecPark    = 23 // DEC park sensor, active-low

	PinOpenRelay  = 5  // open-direction relay coil, active-low
	PinCloseRelay = 6  // close-direction relay coil, active-low
	PinLED        = 13 // status LED, active-high
)
