package gpiopress

import (
	"sync"
	"time"
)

// InputType describes the physical behavior of a button with respect to
// the wiring of its input pin.
type InputType string

const (
	// ActiveHigh means the button reads pressed while its pin is high.
	// Typical for a switch to 3V3 with a pull-down.
	ActiveHigh InputType = "active_high"

	// ActiveLow means the button reads pressed while its pin is low.
	// Typical for a switch to ground with a pull-up.
	ActiveLow InputType = "active_low"
)

// String returns the string representation of the input type.
func (t InputType) String() string {
	return string(t)
}

// Button represents one physical button wired to a GPIO input pin.
//
// A button belongs to exactly one [Controller] and one pin; it is created
// with [Controller.NewButton] and lives until the controller stops or
// [Controller.DeleteButton] is called. Identity and timing are immutable
// after creation; handlers may be added and removed at any time.
type Button struct {
	pin      int
	name     string
	input    InputType
	pull     Pull
	debounce time.Duration
	window   time.Duration
	longWait time.Duration

	ctrl *Controller

	mu       sync.Mutex
	handlers map[EventKind][]*handlerEntry
}

// handlerEntry gives each registered handler an identity so it can be
// removed again (func values are not comparable).
type handlerEntry struct {
	fn Handler
}

// Pin returns the input pin the button is wired to.
func (b *Button) Pin() int {
	return b.pin
}

// Name returns the button's informational name, used mainly for logging.
// Defaults to "button-<pin>" if not set via [WithName].
func (b *Button) Name() string {
	return b.name
}

// Input returns the button's wiring polarity.
func (b *Button) Input() InputType {
	return b.input
}

// PullBias returns the pull configuration applied to the button's pin.
func (b *Button) PullBias() Pull {
	return b.pull
}

// Debounce returns the minimum stable duration before a press or release
// is declared.
func (b *Button) Debounce() time.Duration {
	return b.debounce
}

// DoubleClickWindow returns the maximum time between the first press and
// the second release for the pair to count as a double click.
func (b *Button) DoubleClickWindow() time.Duration {
	return b.window
}

// LongPressTimeout returns how long the button must stay pressed before
// a long press is raised.
func (b *Button) LongPressTimeout() time.Duration {
	return b.longWait
}

// Pressed reports whether the button is currently pressed (debounced).
func (b *Button) Pressed() bool {
	return b.ctrl.engine.Pressed(b.pin)
}

// LongPressed reports whether the button is pressed and has been so for
// at least the long-press timeout.
func (b *Button) LongPressed() bool {
	return b.ctrl.engine.LongPressed(b.pin)
}

// On registers a handler for the given event kind and returns a function
// that removes it again. Handlers run in registration order on the
// controller's dispatch goroutine; see [Handler] for their contract.
//
// Nil handlers are ignored and return a no-op remover.
func (b *Button) On(kind EventKind, h Handler) (remove func()) {
	if h == nil {
		return func() {}
	}
	entry := &handlerEntry{fn: h}

	b.mu.Lock()
	b.handlers[kind] = append(b.handlers[kind], entry)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.handlers[kind]
		for i, e := range list {
			if e == entry {
				b.handlers[kind] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// OnPress registers a handler for the [Press] event.
func (b *Button) OnPress(h Handler) (remove func()) {
	return b.On(Press, h)
}

// OnRelease registers a handler for the [Release] event.
func (b *Button) OnRelease(h Handler) (remove func()) {
	return b.On(Release, h)
}

// OnClick registers a handler for the [Click] event. No click is raised
// when a double click occurs; see [Click] for the exact timing.
func (b *Button) OnClick(h Handler) (remove func()) {
	return b.On(Click, h)
}

// OnDoubleClick registers a handler for the [DoubleClick] event.
func (b *Button) OnDoubleClick(h Handler) (remove func()) {
	return b.On(DoubleClick, h)
}

// OnLongPress registers a handler for the [LongPress] event.
func (b *Button) OnLongPress(h Handler) (remove func()) {
	return b.On(LongPress, h)
}

// handlersFor snapshots the handlers registered for kind.
func (b *Button) handlersFor(kind EventKind) []Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.handlers[kind]
	if len(list) == 0 {
		return nil
	}
	snapshot := make([]Handler, len(list))
	for i, e := range list {
		snapshot[i] = e.fn
	}
	return snapshot
}
