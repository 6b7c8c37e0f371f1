package relay

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/roof-controller/internal/gpio"
)

// testDriver wires a Driver to a fake relay board with a recording
// sleep and a fixed-step clock.
func testDriver(t *testing.T) (*Driver, *gpio.FakeRelays, *[]time.Duration) {
	t.Helper()
	relays := gpio.NewFakeRelays()
	var sleeps []time.Duration
	now := time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC)
	d := NewWithClock(relays,
		func(dur time.Duration) { sleeps = append(sleeps, dur) },
		func() time.Time { return now },
	)
	return d, relays, &sleeps
}

func TestDriveOpenSequence(t *testing.T) {
	d, relays, sleeps := testDriver(t)

	epoch, err := d.DriveOpen()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if epoch.IsZero() {
		t.Error("epoch should be set")
	}

	// Expected write order: both released, open energized, open released.
	want := []gpio.RelayLevels{
		{Open: false, Close: false},
		{Open: false, Close: false},
		{Open: true, Close: false},
		{Open: false, Close: false},
	}
	if len(relays.History) != len(want) {
		t.Fatalf("expected %d writes, got %d: %+v", len(want), len(relays.History), relays.History)
	}
	for i, w := range want {
		if relays.History[i] != w {
			t.Errorf("write %d: got %+v, want %+v", i, relays.History[i], w)
		}
	}

	// Settle before the pulse, pulse width after the energize.
	if len(*sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(*sleeps))
	}
	if (*sleeps)[0] != SettleDelay {
		t.Errorf("settle: got %v, want %v", (*sleeps)[0], SettleDelay)
	}
	if (*sleeps)[1] != PulseWidth {
		t.Errorf("pulse: got %v, want %v", (*sleeps)[1], PulseWidth)
	}
}

func TestDriveCloseSequence(t *testing.T) {
	d, relays, _ := testDriver(t)

	if _, err := d.DriveClose(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	final := relays.History[len(relays.History)-1]
	if final.Open || final.Close {
		t.Errorf("outputs must end released, got %+v", final)
	}
	open, closeCount := relays.EnergizeCount()
	if open != 0 || closeCount != 1 {
		t.Errorf("energize counts: got open=%d close=%d, want 0/1", open, closeCount)
	}
}

// TestNeverBothEnergized reverses direction repeatedly and checks the
// both-off invariant at every recorded instant.
func TestNeverBothEnergized(t *testing.T) {
	d, relays, _ := testDriver(t)

	for i := 0; i < 5; i++ {
		if _, err := d.DriveOpen(); err != nil {
			t.Fatal(err)
		}
		if _, err := d.DriveClose(); err != nil {
			t.Fatal(err)
		}
		if err := d.Stop(); err != nil {
			t.Fatal(err)
		}
	}

	if relays.BothEnergized() {
		t.Fatal("both direction relays were energized at the same instant")
	}
}

func TestStopReleasesBoth(t *testing.T) {
	d, relays, sleeps := testDriver(t)

	if err := d.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if relays.Open || relays.Close {
		t.Errorf("outputs should be released, got open=%v close=%v", relays.Open, relays.Close)
	}
	// Stop is the abort path; it must not wait.
	if len(*sleeps) != 0 {
		t.Errorf("Stop should not sleep, got %v", *sleeps)
	}
}

func TestDriveErrorPropagates(t *testing.T) {
	relays := gpio.NewFakeRelays()
	relays.SetError = errors.New("simulated error")
	d := NewWithClock(relays, func(time.Duration) {}, time.Now)

	if _, err := d.DriveOpen(); err == nil {
		t.Error("expected error from DriveOpen")
	}
	if err := d.Stop(); err == nil {
		t.Error("expected error from Stop")
	}
}
