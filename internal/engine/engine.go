package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Reader is the driver capability the engine depends on: reading the
// current logical level of a configured pin.
type Reader interface {
	Read(pin int) (bool, error)
}

// Event is the engine's view of a semantic button event.
//
// This is decoupled from the public gpiopress.Event type to avoid
// circular dependencies; the controller maps pins back to buttons.
type Event struct {
	// Pin is the input pin the event originated from.
	Pin int

	// Kind classifies the event.
	Kind Kind

	// At is the time the sample producing the event was taken.
	At time.Time

	// Pressed is the debounced pressed state after the event.
	Pressed bool

	// LongPressed reports whether the current press already lasted the
	// long-press timeout.
	LongPressed bool
}

// button couples a machine with the polarity of its wiring.
type button struct {
	activeLow bool
	machine   *Machine
}

// Engine periodically samples all registered pins and emits events.
//
// Engine runs a single sampling goroutine that ticks at the poll
// interval, reads every pin through the [Reader], applies polarity and
// feeds the per-button machines. Events are emitted to a channel that
// is closed when the engine stops.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use, as
// are Add and Remove while the engine is running.
type Engine struct {
	reader   Reader
	interval time.Duration
	logger   *slog.Logger
	events   chan Event

	mu      sync.Mutex
	buttons map[int]*button
	started bool
	stopped bool
	cancel  context.CancelFunc

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates an engine sampling through reader at the given interval.
//
// The engine must be started with [Engine.Start] and stopped with
// [Engine.Stop]. Events are available via [Engine.Events].
func New(reader Reader, interval time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		reader:   reader,
		interval: interval,
		logger:   logger,
		events:   make(chan Event, 64),
		buttons:  make(map[int]*button),
	}
}

// Events returns a receive-only channel that emits [Event] values.
//
// The channel is closed when the engine stops. Consumers should read
// from this channel until it is closed to receive all pending events.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Add registers a pin for sampling.
//
// The pin is read once to seed the machine, so a button that is already
// held when added raises no spurious press. Returns an error if the pin
// is already registered or the initial read fails.
func (e *Engine) Add(pin int, activeLow bool, timing Timing) error {
	raw, err := e.reader.Read(pin)
	if err != nil {
		return fmt.Errorf("initial read of pin %d: %w", pin, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.buttons[pin]; ok {
		return fmt.Errorf("pin %d already registered", pin)
	}
	e.buttons[pin] = &button{
		activeLow: activeLow,
		machine:   NewMachine(timing, time.Now(), logicalPressed(raw, activeLow)),
	}
	return nil
}

// Remove deregisters a pin. Removing an unknown pin is a no-op.
func (e *Engine) Remove(pin int) {
	e.mu.Lock()
	delete(e.buttons, pin)
	e.mu.Unlock()
}

// Pressed reports the debounced pressed state of a registered pin.
// Unknown pins report false.
func (e *Engine) Pressed(pin int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.buttons[pin]; ok {
		return b.machine.Pressed()
	}
	return false
}

// LongPressed reports whether a registered pin is in a long press.
// Unknown pins report false.
func (e *Engine) LongPressed(pin int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.buttons[pin]; ok {
		return b.machine.LongPressed()
	}
	return false
}

// Start begins the sampling loop in a background goroutine.
//
// Start is non-blocking and returns immediately. The engine samples all
// registered pins on every tick until [Engine.Stop] is called or the
// context is cancelled.
//
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
// Start launches the sampling goroutine. Starting twice, or after Stop,
// is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.started = true
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer e.closeOnce.Do(func() { close(e.events) })

		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.sample(ctx)
			}
		}
	}()
}

// Stop halts the engine and waits for the sampling goroutine to exit.
//
// After Stop returns the events channel is closed and no further events
// are emitted. Stop is idempotent and safe to call before Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.stopped {
		e.stopped = true
		if e.cancel != nil {
			e.cancel()
		}
	}
	e.mu.Unlock()

	e.wg.Wait()

	// ensure the channel is closed even if Start was never called
	e.closeOnce.Do(func() { close(e.events) })
}

// sample reads every registered pin once and emits resulting events.
//
// A read failure on one pin is logged and skips that pin for this tick;
// it does not stop the loop or affect other pins.
func (e *Engine) sample(ctx context.Context) {
	now := time.Now()

	var out []Event
	e.mu.Lock()
	for pin, b := range e.buttons {
		raw, err := e.reader.Read(pin)
		if err != nil {
			e.logger.Warn("pin read failed", "pin", pin, "error", err)
			continue
		}
		for _, kind := range b.machine.Feed(now, logicalPressed(raw, b.activeLow)) {
			out = append(out, Event{
				Pin:         pin,
				Kind:        kind,
				At:          now,
				Pressed:     b.machine.Pressed(),
				LongPressed: b.machine.LongPressed(),
			})
		}
	}
	e.mu.Unlock()

	for _, ev := range out {
		select {
		case e.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// logicalPressed applies wiring polarity to a raw level.
func logicalPressed(raw, activeLow bool) bool {
	if activeLow {
		return !raw
	}
	return raw
}
