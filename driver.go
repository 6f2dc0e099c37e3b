package gpiopress

import "errors"

// Pull selects the built-in bias resistor applied to a button's input pin.
//
// The appropriate value depends on how the physical switch is wired. A
// switch to ground is normally used with [PullUp] and [ActiveLow]; a
// switch to 3V3 with [PullDown] and [ActiveHigh].
type Pull string

const (
	// PullNone leaves the pin floating. Only use this when the circuit
	// provides its own bias; a floating input reads noise.
	PullNone Pull = "none"

	// PullUp biases the pin high when the switch is open.
	PullUp Pull = "up"

	// PullDown biases the pin low when the switch is open.
	PullDown Pull = "down"
)

// String returns the string representation of the pull configuration.
func (p Pull) String() string {
	return string(p)
}

// Driver abstracts access to the GPIO hardware.
//
// Implementations must be safe for concurrent use: the controller reads
// levels from its sampling goroutine while buttons may be configured from
// the caller's goroutine.
//
// Drivers acquire their hardware resource in their constructor. The
// controller calls Close exactly once when it stops; a driver that is
// never handed to a running controller must be closed by the caller.
type Driver interface {
	// Configure prepares pin as an input with the given pull bias.
	// It is called once per button, before the first Read of that pin.
	Configure(pin int, pull Pull) error

	// Unconfigure releases a previously configured pin.
	Unconfigure(pin int) error

	// Read returns the current logical level of a configured pin.
	// true is high, false is low.
	Read(pin int) (bool, error)

	// Close releases the underlying hardware resource. After Close,
	// all other methods fail.
	Close() error
}

// Sentinel errors returned by drivers and the controller. Use
// [errors.Is] to test for them; the concrete errors wrap these with
// pin and cause details.
var (
	// ErrInvalidPin reports a pin identifier the driver cannot serve.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrUnsupportedPull reports a pull option the driver cannot apply.
	ErrUnsupportedPull = errors.New("unsupported pull")

	// ErrDuplicatePin reports a pin that is already bound to a button
	// of the same controller.
	ErrDuplicatePin = errors.New("pin already registered")

	// ErrClosed reports use of a driver after Close.
	ErrClosed = errors.New("driver closed")
)
