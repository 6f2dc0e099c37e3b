// Package sim provides an in-memory gpiopress driver for tests and demos.
//
// The simulated pins are driven with [Driver.SetLevel] and [Driver.Toggle]
// from any goroutine; the controller observes the changes on its next
// sample. Configure calls bias the pin to the level its pull resistor
// would produce, so an active-low button with a pull-up starts released.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/cmaslen/gpiopress"
)

// Driver is an in-memory implementation of [gpiopress.Driver].
//
// Driver is safe for concurrent use. It records close calls so tests can
// assert the controller releases it exactly once.
type Driver struct {
	mu         sync.Mutex
	levels     map[int]bool
	closed     bool
	closeCalls int
}

// New creates a simulated driver with no pins configured.
func New() *Driver {
	return &Driver{levels: make(map[int]bool)}
}

// Configure prepares a simulated pin, biased to the idle level of its
// pull resistor: high for [gpiopress.PullUp], low otherwise.
func (d *Driver) Configure(pin int, pull gpiopress.Pull) error {
	if pin < 0 {
		return fmt.Errorf("%w: %d", gpiopress.ErrInvalidPin, pin)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	d.levels[pin] = pull == gpiopress.PullUp
	return nil
}

// Unconfigure releases a simulated pin.
func (d *Driver) Unconfigure(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	if _, ok := d.levels[pin]; !ok {
		return fmt.Errorf("%w: pin %d not configured", gpiopress.ErrInvalidPin, pin)
	}
	delete(d.levels, pin)
	return nil
}

// Read returns the current simulated level of a configured pin.
func (d *Driver) Read(pin int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false, gpiopress.ErrClosed
	}
	level, ok := d.levels[pin]
	if !ok {
		return false, fmt.Errorf("%w: pin %d not configured", gpiopress.ErrInvalidPin, pin)
	}
	return level, nil
}

// Close marks the driver closed. Further operations fail with
// [gpiopress.ErrClosed].
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCalls++
	if d.closed {
		return gpiopress.ErrClosed
	}
	d.closed = true
	return nil
}

// CloseCalls returns how many times Close has been called.
func (d *Driver) CloseCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCalls
}

// SetLevel drives a configured pin to the given level.
func (d *Driver) SetLevel(pin int, level bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	if _, ok := d.levels[pin]; !ok {
		return fmt.Errorf("%w: pin %d not configured", gpiopress.ErrInvalidPin, pin)
	}
	d.levels[pin] = level
	return nil
}

// Press drives a configured pin to the level a held button of the given
// polarity produces: low for [gpiopress.ActiveLow], high otherwise.
func (d *Driver) Press(pin int, input gpiopress.InputType) error {
	return d.SetLevel(pin, input == gpiopress.ActiveHigh)
}

// Release drives a configured pin to its released level, the inverse of
// [Driver.Press].
func (d *Driver) Release(pin int, input gpiopress.InputType) error {
	return d.SetLevel(pin, input == gpiopress.ActiveLow)
}

// Click presses the pin, holds it for the given duration and releases
// it. The hold must exceed the button's debounce for the controller to
// see the click.
func (d *Driver) Click(pin int, input gpiopress.InputType, hold time.Duration) error {
	if err := d.Press(pin, input); err != nil {
		return err
	}
	time.Sleep(hold)
	return d.Release(pin, input)
}

// Toggle inverts the level of a configured pin.
func (d *Driver) Toggle(pin int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return gpiopress.ErrClosed
	}
	level, ok := d.levels[pin]
	if !ok {
		return fmt.Errorf("%w: pin %d not configured", gpiopress.ErrInvalidPin, pin)
	}
	d.levels[pin] = !level
	return nil
}
