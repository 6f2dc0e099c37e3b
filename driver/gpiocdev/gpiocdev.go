// Package gpiocdev provides a gpiopress driver backed by the Linux GPIO
// character device (/dev/gpiochipN) via github.com/warthog618/go-gpiocdev.
//
// This is the recommended driver on any reasonably recent kernel: it
// needs no root when udev grants access to the gpio group, and pull
// biases are applied through the uAPI rather than by poking registers.
//
// Pin numbers are line offsets on the selected chip.
package gpiocdev

import (
	"fmt"
	"sync"

	cdev "github.com/warthog618/go-gpiocdev"

	"github.com/cmaslen/gpiopress"
)

// DefaultChip is the chip used when none is given. On a Raspberry Pi
// the header lines live on gpiochip0.
const DefaultChip = "gpiochip0"

// Driver is a [gpiopress.Driver] requesting lines from one GPIO chip.
type Driver struct {
	chip string

	mu     sync.Mutex
	lines  map[int]*cdev.Line
	closed bool
}

// New creates a driver for the named chip, e.g. "gpiochip0" or
// "/dev/gpiochip0". An empty name selects [DefaultChip]. Lines are
// requested lazily on Configure, so New itself cannot fail.
func New(chip string) *Driver {
	if chip == "" {
		chip = DefaultChip
	}
	return &Driver{chip: chip, lines: make(map[int]*cdev.Line)}
}

// Chip returns the chip this driver requests lines from.
func (d *Driver) Chip() string {
	return d.chip
}

// Configure requests the line as an input with the given pull bias.
func (d *Driver) Configure(pin int, pull gpiopress.Pull) error {
	if pin < 0 {
		return fmt.Errorf("%w: %d", gpiopress.ErrInvalidPin, pin)
	}

	opts := []cdev.LineReqOption{cdev.AsInput}
	switch pull {
	case gpiopress.PullUp:
		opts = append(opts, cdev.WithPullUp)
	case gpiopress.PullDown:
		opts = append(opts, cdev.WithPullDown)
	case gpiopress.PullNone:
		opts = append(opts, cdev.WithBiasDisabled)
	default:
		return fmt.Errorf("%w: %q", gpiopress.ErrUnsupportedPull, pull)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	if _, ok := d.lines[pin]; ok {
		return fmt.Errorf("%w: line %d already requested", gpiopress.ErrInvalidPin, pin)
	}

	line, err := cdev.RequestLine(d.chip, pin, opts...)
	if err != nil {
		return fmt.Errorf("request line %d on %s: %w", pin, d.chip, err)
	}
	d.lines[pin] = line
	return nil
}

// Unconfigure releases a requested line.
func (d *Driver) Unconfigure(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	line, ok := d.lines[pin]
	if !ok {
		return fmt.Errorf("%w: line %d not requested", gpiopress.ErrInvalidPin, pin)
	}
	delete(d.lines, pin)
	if err := line.Close(); err != nil {
		return fmt.Errorf("release line %d: %w", pin, err)
	}
	return nil
}

// Read returns the current level of a requested line.
func (d *Driver) Read(pin int) (bool, error) {
	d.mu.Lock()
	line, ok := d.lines[pin]
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return false, gpiopress.ErrClosed
	}
	if !ok {
		return false, fmt.Errorf("%w: line %d not requested", gpiopress.ErrInvalidPin, pin)
	}

	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read line %d: %w", pin, err)
	}
	return v != 0, nil
}

// Close releases all requested lines. Close is idempotent.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	var firstErr error
	for pin, line := range d.lines {
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("release line %d: %w", pin, err)
		}
	}
	d.lines = nil
	return firstErr
}
