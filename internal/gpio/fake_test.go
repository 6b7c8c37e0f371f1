package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Readings{
		{CloseLimit: true, RAParked: true, DecParked: true},
		{RAParked: true, DecParked: true},
		{OpenLimit: true, RAParked: true, DecParked: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: got %+v, want %+v", i, got, want)
		}
	}

	// Further reads repeat the last sample.
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != samples[len(samples)-1] {
		t.Errorf("repeat read: got %+v, want %+v", got, samples[len(samples)-1])
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Readings{{OpenLimit: true}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Readings{
		{OpenLimit: true},
		{CloseLimit: true},
	})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("should not be closed after Reset()")
	}
	got, _ := f.Read()
	if !got.OpenLimit {
		t.Errorf("after reset: got %+v, want first sample", got)
	}
}

func TestFakeRelaysHistory(t *testing.T) {
	f := NewFakeRelays()

	f.SetOpen(true)
	f.SetOpen(false)
	f.SetClose(true)
	f.SetClose(false)

	if len(f.History) != 4 {
		t.Fatalf("expected 4 recorded writes, got %d", len(f.History))
	}
	if f.BothEnergized() {
		t.Error("both directions were never energized together")
	}

	open, close := f.EnergizeCount()
	if open != 1 || close != 1 {
		t.Errorf("energize counts: got open=%d close=%d, want 1/1", open, close)
	}
}

func TestFakeRelaysBothEnergized(t *testing.T) {
	f := NewFakeRelays()

	f.SetOpen(true)
	f.SetClose(true) // violation

	if !f.BothEnergized() {
		t.Error("BothEnergized should report the overlapping instant")
	}
}

func TestFakeRelaysSetError(t *testing.T) {
	f := NewFakeRelays()
	f.SetError = errors.New("simulated error")

	if err := f.SetOpen(true); err == nil {
		t.Error("expected error from SetOpen")
	}
	if len(f.History) != 0 {
		t.Error("failed write should not be recorded")
	}
}

func TestFakeLED(t *testing.T) {
	f := &FakeLED{}

	f.SetLED(true)
	f.SetLED(false)
	f.SetLED(true)

	if !f.On {
		t.Error("LED should be on after last write")
	}
	if len(f.Writes) != 3 {
		t.Errorf("expected 3 writes, got %d", len(f.Writes))
	}
}
