package gpiopress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cmaslen/gpiopress/internal/engine"
	"github.com/cmaslen/gpiopress/internal/pubsub"
)

const defaultPollInterval = 5 * time.Millisecond

// Status describes the lifecycle step a [Controller] is in.
type Status string

const (
	// StatusReady means the controller is waiting to be started, either
	// with [Controller.Run] or [Controller.Start].
	StatusReady Status = "ready"

	// StatusRunning means the controller is sampling pins and raising
	// button events.
	StatusRunning Status = "running"

	// StatusStopping means the controller is shutting down. No new
	// events are raised, but in-flight handlers may still be finishing.
	StatusStopping Status = "stopping"

	// StatusStopped means the controller is at a full stop, all handlers
	// have returned and the driver has been released. A stopped
	// controller cannot be started again.
	StatusStopped Status = "stopped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Controller owns a set of buttons, samples their pins through the
// configured [Driver] and dispatches semantic events to handlers.
//
// Controller is created with [New] and functional options, populated
// with [Controller.NewButton] and started with [Controller.Run] (blocking)
// or [Controller.Start] (background). The typical lifecycle is:
//
//	ctrl, err := gpiopress.New(gpiopress.WithDriver(drv))
//	if err != nil {
//	    slog.Error("failed to create controller", "error", err)
//	    os.Exit(1)
//	}
//	btn, _ := ctrl.NewButton(17, gpiopress.ActiveLow, gpiopress.PullUp)
//	btn.OnClick(onClick)
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	ctrl.Run(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context or [Controller.Stop].
// On every exit path the driver is released exactly once.
type Controller struct {
	driver       Driver
	pollInterval time.Duration
	logger       *slog.Logger

	engine *engine.Engine
	hub    *pubsub.Hub[Event]

	mu      sync.Mutex
	status  Status
	buttons map[int]*Button
	order   []*Button
	cancel  context.CancelFunc

	running     chan struct{}
	done        chan struct{}
	closeDriver sync.Once
}

// New creates a new [Controller] with the given options.
//
// A driver must be configured via [WithDriver]. Other options have
// sensible defaults:
//   - Poll interval: 5ms
//   - Logger: [slog.Default]
//
// Returns an error if no driver is configured or if any option is
// invalid.
func New(opts ...Option) (*Controller, error) {
	cfg := &ctrlConfig{
		pollInterval: defaultPollInterval,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.driver == nil {
		return nil, errors.New("a driver is required (see driver/gpiocdev, driver/rpio and driver/sim)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		driver:       cfg.driver,
		pollInterval: cfg.pollInterval,
		logger:       logger,
		engine:       engine.New(cfg.driver, cfg.pollInterval, logger),
		hub:          pubsub.New[Event](),
		status:       StatusReady,
		buttons:      make(map[int]*Button),
		running:      make(chan struct{}),
		done:         make(chan struct{}),
	}

	for _, spec := range cfg.buttons {
		if _, err := c.NewButton(spec.pin, spec.input, spec.pull, spec.opts...); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Status returns the current lifecycle status of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Buttons returns the registered buttons in registration order.
//
// The returned slice is a copy; modifying it does not affect the
// controller.
func (c *Controller) Buttons() []*Button {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]*Button, len(c.order))
	copy(cp, c.order)
	return cp
}

// NewButton creates a button wired to the given input pin.
//
// The pin is configured on the driver with the given pull bias and read
// once to seed the button's state, so no event is raised for a button
// that is already held. Buttons may be added before or while the
// controller runs.
//
// Returns an error if the pin is already bound to a button of this
// controller (test with [ErrDuplicatePin]), if the controller is
// stopping or stopped, or if the driver rejects the configuration.
func (c *Controller) NewButton(pin int, input InputType, pull Pull, opts ...ButtonOption) (*Button, error) {
	if !validInput(input) {
		return nil, fmt.Errorf("invalid input type %q", input)
	}
	if !validPull(pull) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPull, pull)
	}

	cfg, err := newButtonConfig(pin, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusStopping || c.status == StatusStopped {
		return nil, fmt.Errorf("controller is %s and cannot accept buttons", c.status)
	}
	if _, ok := c.buttons[pin]; ok {
		return nil, fmt.Errorf("pin %d: %w", pin, ErrDuplicatePin)
	}

	if err := c.driver.Configure(pin, pull); err != nil {
		return nil, fmt.Errorf("configure pin %d: %w", pin, err)
	}
	err = c.engine.Add(pin, input == ActiveLow, engine.Timing{
		Debounce:          cfg.debounce,
		DoubleClickWindow: cfg.window,
		LongPressTimeout:  cfg.longWait,
	})
	if err != nil {
		_ = c.driver.Unconfigure(pin)
		return nil, err
	}

	b := &Button{
		pin:      pin,
		name:     cfg.name,
		input:    input,
		pull:     pull,
		debounce: cfg.debounce,
		window:   cfg.window,
		longWait: cfg.longWait,
		ctrl:     c,
		handlers: make(map[EventKind][]*handlerEntry),
	}
	c.buttons[pin] = b
	c.order = append(c.order, b)

	c.logger.Debug("button configured", "button", b.name, "pin", pin, "pull", pull, "input", input)
	return b, nil
}

// DeleteButton removes a button from the controller.
//
// The controller stops monitoring the button's pin and the driver
// releases it. Handlers registered on the button will not fire again.
// It is not required to delete buttons before stopping the controller.
//
// Returns an error if the button is not registered in this controller.
func (c *Controller) DeleteButton(b *Button) error {
	if b == nil {
		return errors.New("button cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buttons[b.pin] != b {
		return fmt.Errorf("button %q is not registered in this controller", b.name)
	}
	c.engine.Remove(b.pin)
	delete(c.buttons, b.pin)
	for i, other := range c.order {
		if other == b {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	if err := c.driver.Unconfigure(b.pin); err != nil {
		return fmt.Errorf("unconfigure pin %d: %w", b.pin, err)
	}
	return nil
}

// Subscribe returns a channel that receives every button event, in
// addition to any registered handlers.
//
// The channel is buffered; slow consumers miss events rather than
// blocking dispatch. It is closed when the controller stops. Callers
// must call [Controller.Unsubscribe] when done to prevent resource
// leaks.
func (c *Controller) Subscribe() <-chan Event {
	return c.hub.Subscribe()
}

// Unsubscribe removes a subscription created with
// [Controller.Subscribe] and closes its channel. Safe to call with a
// channel that was already unsubscribed.
func (c *Controller) Unsubscribe(ch <-chan Event) {
	c.hub.Unsubscribe(ch)
}

// Run starts sampling and dispatching and blocks until the context is
// cancelled or [Controller.Stop] is called.
//
// During execution all registered pins are sampled at the poll interval
// and events are dispatched from a single goroutine. On shutdown the
// controller stops sampling, lets the in-flight handler finish, closes
// all subscription channels and releases the driver exactly once.
//
// Returns an error if the controller is not in [StatusReady], or if
// releasing the driver fails. See [Controller.Start] for the
// non-blocking variant.
func (c *Controller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.status != StatusReady {
		status := c.status
		c.mu.Unlock()
		return fmt.Errorf("controller is %s and cannot be started", status)
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancel = cancel
	c.status = StatusRunning
	close(c.running)
	buttons := len(c.order)
	c.mu.Unlock()

	c.logger.Info("controller running", "buttons", buttons, "poll_interval", c.pollInterval.String())

	c.engine.Start(runCtx)

	// single dispatch goroutine: handlers run here, in order, one at a time
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range c.engine.Events() {
			c.dispatch(runCtx, ev)
		}
	}()

	<-runCtx.Done()

	c.mu.Lock()
	c.status = StatusStopping
	c.mu.Unlock()
	c.logger.Info("stopping controller")

	c.engine.Stop() // closes the event channel
	wg.Wait()       // wait for the in-flight handler to finish
	c.hub.Close()

	var closeErr error
	c.closeDriver.Do(func() { closeErr = c.driver.Close() })

	c.mu.Lock()
	c.status = StatusStopped
	c.mu.Unlock()
	close(c.done)

	c.logger.Info("controller stopped")
	if closeErr != nil {
		return fmt.Errorf("close driver: %w", closeErr)
	}
	return nil
}

// Start runs the controller in a background goroutine.
//
// Start returns once the controller is actually running, so callers can
// immediately exercise buttons (useful in tests). Errors from the run
// loop itself are logged. See [Controller.Run] for the blocking variant.
//
// Returns an error if the controller is not in [StatusReady].
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusReady {
		status := c.status
		c.mu.Unlock()
		return fmt.Errorf("controller is %s and cannot be started", status)
	}
	c.mu.Unlock()

	go func() {
		if err := c.Run(ctx); err != nil {
			c.logger.Error("controller run failed", "error", err)
		}
	}()

	select {
	case <-c.running:
		return nil
	case <-c.done:
		return errors.New("controller stopped before it was running")
	}
}

// Stop gracefully stops a running controller and blocks until it has
// fully stopped: sampling halted, in-flight handler finished and the
// driver released.
//
// Stopping an already stopped controller is a no-op. Stopping a
// controller that was never started returns an error.
func (c *Controller) Stop() error {
	c.mu.Lock()
	switch c.status {
	case StatusStopped:
		c.mu.Unlock()
		return nil
	case StatusRunning, StatusStopping:
		cancel := c.cancel
		c.mu.Unlock()
		cancel()
		<-c.done
		return nil
	default:
		status := c.status
		c.mu.Unlock()
		return fmt.Errorf("controller is %s and cannot be stopped", status)
	}
}

// dispatch maps an engine event to the public type, publishes it to
// subscribers and invokes the button's handlers.
func (c *Controller) dispatch(ctx context.Context, eev engine.Event) {
	c.mu.Lock()
	b := c.buttons[eev.Pin]
	c.mu.Unlock()
	if b == nil {
		// button deleted while the event was in flight
		return
	}

	ev := Event{Button: b, Kind: EventKind(eev.Kind), At: eev.At}
	c.logger.Debug("button event", "button", b.name, "pin", b.pin, "kind", ev.Kind)

	c.hub.Publish(ev)
	for _, h := range b.handlersFor(ev.Kind) {
		c.invokeHandler(ctx, h, ev)
	}
}

// invokeHandler calls a handler with panic recovery.
//
// Panics are logged with a correlation id and a stack trace; they do
// not propagate to the dispatch loop.
func (c *Controller) invokeHandler(ctx context.Context, h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			c.logger.Error("event handler panicked",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
				"button", ev.Button.Name(),
				"kind", ev.Kind,
			)
		}
	}()
	h(ctx, ev)
}
