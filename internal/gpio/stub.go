//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealPort is not available on non-Linux platforms.
type RealPort struct{}

// NewRealPort returns an error on non-Linux platforms.
func NewRealPort() (*RealPort, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (p *RealPort) Read() (Readings, error) {
	return Readings{}, errUnsupported
}

// SetOpen is not implemented on non-Linux platforms.
func (p *RealPort) SetOpen(bool) error { return errUnsupported }

// SetClose is not implemented on non-Linux platforms.
func (p *RealPort) SetClose(bool) error { return errUnsupported }

// SetLED is not implemented on non-Linux platforms.
func (p *RealPort) SetLED(bool) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (p *RealPort) Close() error { return nil }
