package gpio

import "errors"

// FakeReader is a test double that returns scripted sensor samples.
type FakeReader struct {
	// Samples contains scripted readings to return. Each call to Read()
	// consumes the next sample; the last sample repeats once exhausted.
	Samples []Readings

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Readings) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (Readings, error) {
	if f.ReadError != nil {
		return Readings{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Readings{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// RelayLevels is a snapshot of both direction outputs after one write.
type RelayLevels struct {
	Open  bool // true = energized
	Close bool
}

// FakeRelays records every relay write so tests can check the full
// output history, in particular that both directions were never
// energized at the same instant.
type FakeRelays struct {
	// Open and Close hold the current logical levels.
	Open  bool
	Close bool

	// History holds the levels after every Set call, in order.
	History []RelayLevels

	// SetError, if set, will be returned by SetOpen and SetClose.
	SetError error
}

// NewFakeRelays creates a FakeRelays with both outputs released.
func NewFakeRelays() *FakeRelays {
	return &FakeRelays{}
}

// SetOpen sets the open-direction output.
func (f *FakeRelays) SetOpen(energized bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Open = energized
	f.record()
	return nil
}

// SetClose sets the close-direction output.
func (f *FakeRelays) SetClose(energized bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Close = energized
	f.record()
	return nil
}

func (f *FakeRelays) record() {
	f.History = append(f.History, RelayLevels{Open: f.Open, Close: f.Close})
}

// BothEnergized reports whether any recorded instant had both
// directions energized. This is the invariant every relay test checks.
func (f *FakeRelays) BothEnergized() bool {
	for _, l := range f.History {
		if l.Open && l.Close {
			return true
		}
	}
	return false
}

// EnergizeCount returns how many recorded writes left the given
// direction energized.
func (f *FakeRelays) EnergizeCount() (open, close int) {
	prev := RelayLevels{}
	for _, l := range f.History {
		if l.Open && !prev.Open {
			open++
		}
		if l.Close && !prev.Close {
			close++
		}
		prev = l
	}
	return open, close
}

// Reset clears recorded history and levels.
func (f *FakeRelays) Reset() {
	f.Open = false
	f.Close = false
	f.History = nil
	f.SetError = nil
}

// FakeLED records status LED writes.
type FakeLED struct {
	On     bool
	Writes []bool
}

// SetLED records the LED level.
func (f *FakeLED) SetLED(on bool) error {
	f.On = on
	f.Writes = append(f.Writes, on)
	return nil
}
