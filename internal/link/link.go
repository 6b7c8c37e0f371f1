// Package link implements the host command link: it scans the serial
// stream for command words and writes reply words back. This is the
// boundary between the wire protocol and the roof controller; it holds
// no roof state of its own.
package link

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tarm/serial"
	"golang.org/x/sync/errgroup"

	"github.com/sweeney/roof-controller/internal/roof"
)

// commandBacklog bounds how many parsed commands can queue while the
// run loop is busy (e.g. during a relay pulse). The host protocol is
// one short word per command, so a small backlog is plenty.
const commandBacklog = 16

// ParseCommand maps one received word to a host command. Matching is
// exact and case-sensitive; anything else is not a command.
func ParseCommand(word string) (roof.Command, bool) {
	switch word {
	case "OPEN":
		return roof.CmdOpen, true
	case "CLOSE":
		return roof.CmdClose, true
	case "ABORT":
		return roof.CmdAbort, true
	case "QUERY":
		return roof.CmdQuery, true
	}
	return "", false
}

// Link reads commands from and writes replies to a host connection.
type Link struct {
	rw   io.ReadWriteCloser
	cmds chan roof.Command

	mu sync.Mutex // guards writes to rw
}

// New creates a Link over an existing connection. Useful for tests and
// for TCP-attached hosts.
func New(rw io.ReadWriteCloser) *Link {
	return &Link{
		rw:   rw,
		cmds: make(chan roof.Command, commandBacklog),
	}
}

// OpenSerial opens the host serial port and returns a Link over it.
func OpenSerial(device string, baud int) (*Link, error) {
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	return New(port), nil
}

// Commands returns the channel of parsed inbound commands. The channel
// is closed when the reader exits.
func (l *Link) Commands() <-chan roof.Command {
	return l.cmds
}

// Run scans the connection for command words until ctx is canceled or
// the connection fails. Unrecognized words are dropped with no reply,
// no log, and no state change: garbage on the line is not an error.
func (l *Link) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Wait for cancellation, then close the connection to unblock
		// the scanner.
		<-ctx.Done()
		return l.rw.Close()
	})

	g.Go(func() error {
		defer close(l.cmds)
		scanner := bufio.NewScanner(l.rw)
		scanner.Split(bufio.ScanWords)
		for scanner.Scan() {
			cmd, ok := ParseCommand(scanner.Text())
			if !ok {
				continue
			}
			select {
			case l.cmds <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("reading link: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Reply writes one reply word to the host.
func (l *Link) Reply(r roof.Reply) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := fmt.Fprintf(l.rw, "%s\n", r); err != nil {
		return fmt.Errorf("writing reply: %w", err)
	}
	return nil
}
