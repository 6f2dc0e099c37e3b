// Package pubsub provides channel fan-out of button events.
//
// This package is internal to gpiopress and implements the
// publish-subscribe mechanism behind Controller.Subscribe. Subscribers
// receive values via buffered channels with non-blocking sends: a slow
// subscriber misses events rather than blocking the dispatch loop.
//
// Users of the gpiopress library should not need to interact with this
// package directly.
package pubsub
