// Package gpiopress turns raw button wiring on Raspberry Pi GPIO pins
// into semantic events: press, release, click, double click and long press.
//
// gpiopress is designed as an SDK-first library. A [Controller] owns a set
// of [Button]s, samples their pins through a pluggable [Driver], debounces
// the raw signal and dispatches events to registered handlers from a single
// goroutine. It follows the functional options pattern for all
// configuration.
//
// # Quick Start
//
// Create a controller with a driver, declare a button and run:
//
//	drv, _ := rpio.New()
//	ctrl, _ := gpiopress.New(gpiopress.WithDriver(drv))
//
//	btn, _ := ctrl.NewButton(17, gpiopress.ActiveLow, gpiopress.PullUp)
//	btn.OnClick(func(ctx context.Context, ev gpiopress.Event) {
//	    log.Println("clicked", ev.Button.Name())
//	})
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	ctrl.Run(ctx) // blocks until the context is cancelled
//
// [Controller.Start] is the non-blocking variant; it returns once the
// controller is running and the caller's goroutine continues independently.
//
// # Configuration
//
// Controllers and buttons use the functional options pattern:
//
//	ctrl, err := gpiopress.New(
//	    gpiopress.WithDriver(drv),
//	    gpiopress.WithPollInterval(2 * time.Millisecond),
//	    gpiopress.WithLogger(logger),
//	)
//
//	btn, err := ctrl.NewButton(17, gpiopress.ActiveLow, gpiopress.PullUp,
//	    gpiopress.WithName("red"),
//	    gpiopress.WithDebounce(20 * time.Millisecond),
//	    gpiopress.WithDoubleClickWindow(400 * time.Millisecond),
//	    gpiopress.WithLongPressTimeout(800 * time.Millisecond),
//	)
//
// # Drivers
//
// The [Driver] interface abstracts hardware access. Three implementations
// ship with the library:
//
//   - driver/gpiocdev: the Linux GPIO character device (recommended)
//   - driver/rpio: memory mapped /dev/gpiomem access
//   - driver/sim: an in-memory driver for tests and demos
//
// Custom drivers only need to implement pin configuration, a level read
// and a close.
//
// # Event Dispatch
//
// All handlers run on one goroutine, in registration order. A handler that
// panics is recovered and logged with a correlation id; it never stops the
// dispatch loop. Handlers that block delay subsequent events, so
// long-running work should be moved to a separate goroutine. The context
// passed to a handler is cancelled when the controller stops.
//
// In addition to handlers, [Controller.Subscribe] exposes the event stream
// as a channel for select-based consumers.
//
// # Architecture
//
// gpiopress consists of several internal packages (under internal/):
//
//   - internal/engine: pin sampling loop and the debounce/classification
//     state machine
//   - internal/pubsub: fan-out of events to channel subscribers
//
// The internal packages are not part of the public API and may change
// without notice.
package gpiopress
