// Package rpio provides a gpiopress driver backed by memory mapped
// /dev/gpiomem access via github.com/stianeikeland/go-rpio.
//
// Pin numbers are BCM GPIO numbers, not physical header positions.
// Access to /dev/gpiomem normally requires membership of the gpio group
// or root.
package rpio

import (
	"fmt"
	"sync"

	rpiolib "github.com/stianeikeland/go-rpio/v4"

	"github.com/cmaslen/gpiopress"
)

// maxPin is the highest BCM GPIO number on the Broadcom SoCs go-rpio
// supports.
const maxPin = 53

// Driver is a [gpiopress.Driver] reading pins through go-rpio.
type Driver struct {
	mu     sync.Mutex
	pins   map[int]rpiolib.Pin
	closed bool
}

// New opens /dev/gpiomem and returns a driver.
//
// The caller owns the driver until it is handed to a running
// controller, which then closes it on stop.
func New() (*Driver, error) {
	if err := rpiolib.Open(); err != nil {
		return nil, fmt.Errorf("open gpio memory range: %w", err)
	}
	return &Driver{pins: make(map[int]rpiolib.Pin)}, nil
}

// Configure sets pin up as an input with the given pull bias.
func (d *Driver) Configure(pin int, pull gpiopress.Pull) error {
	if pin < 0 || pin > maxPin {
		return fmt.Errorf("%w: %d (BCM range is 0-%d)", gpiopress.ErrInvalidPin, pin, maxPin)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}

	p := rpiolib.Pin(pin)
	p.Input()
	switch pull {
	case gpiopress.PullUp:
		p.PullUp()
	case gpiopress.PullDown:
		p.PullDown()
	case gpiopress.PullNone:
		p.PullOff()
	default:
		return fmt.Errorf("%w: %q", gpiopress.ErrUnsupportedPull, pull)
	}
	d.pins[pin] = p
	return nil
}

// Unconfigure releases a configured pin, removing its pull bias.
func (d *Driver) Unconfigure(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	p, ok := d.pins[pin]
	if !ok {
		return fmt.Errorf("%w: pin %d not configured", gpiopress.ErrInvalidPin, pin)
	}
	p.PullOff()
	delete(d.pins, pin)
	return nil
}

// Read returns the current level of a configured pin.
func (d *Driver) Read(pin int) (bool, error) {
	d.mu.Lock()
	p, ok := d.pins[pin]
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return false, gpiopress.ErrClosed
	}
	if !ok {
		return false, fmt.Errorf("%w: pin %d not configured", gpiopress.ErrInvalidPin, pin)
	}
	return p.Read() == rpiolib.High, nil
}

// Close unmaps the gpio memory range. Close is idempotent.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.pins = nil
	if err := rpiolib.Close(); err != nil {
		return fmt.Errorf("close gpio memory range: %w", err)
	}
	return nil
}
