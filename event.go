package gpiopress

import (
	"context"
	"time"
)

// EventKind identifies the semantic event a button raised.
//
// EventKind is a string type that can hold one of five predefined values:
// [Press], [Release], [Click], [DoubleClick] or [LongPress]. Using a string
// type allows for easy JSON serialization and human-readable logging while
// maintaining type safety through the defined constants.
type EventKind string

const (
	// Press is raised when the debounced level transitions to pressed.
	Press EventKind = "press"

	// Release is raised when the debounced level transitions to released.
	Release EventKind = "release"

	// Click is raised after a press and release, once the double-click
	// window since the press has expired with no second press. If the
	// release itself happens after the window, Click is raised immediately.
	Click EventKind = "click"

	// DoubleClick is raised when a second press and release complete
	// within the double-click window of the first press. The single Click
	// for the first press is suppressed.
	DoubleClick EventKind = "double_click"

	// LongPress is raised once per press when the button has been held
	// for the long-press timeout.
	LongPress EventKind = "long_press"
)

// String returns the string representation of the event kind.
// This implements the fmt.Stringer interface.
func (k EventKind) String() string {
	return string(k)
}

// Event describes a single semantic button event.
//
// Event is immutable after creation. The originating [Button] is included
// so that one handler can serve several buttons.
type Event struct {
	// Button is the button the event originated from.
	Button *Button

	// Kind classifies the event.
	Kind EventKind

	// At is the time the underlying transition was observed.
	At time.Time
}

// Handler is a function invoked when a button raises an event.
//
// Handlers run on the controller's dispatch goroutine, in registration
// order. The context is cancelled when the controller stops. Handlers
// must be non-blocking; long-running work should be dispatched to a
// separate goroutine, otherwise subsequent events are delayed.
//
// Panics inside a handler are recovered and logged with a correlation id.
// They do not crash the dispatch loop.
type Handler func(ctx context.Context, ev Event)
