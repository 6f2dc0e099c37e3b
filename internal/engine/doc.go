// Package engine provides pin sampling and event classification for gpiopress.
//
// This package is internal to gpiopress and converts raw, possibly noisy
// digital levels into discrete semantic events. It implements a single
// sampling goroutine that ticks at the configured poll interval, reads
// every registered pin through the driver and feeds the per-button state
// machines.
//
// The main components are:
//
//   - [Machine]: debounce and press/click/double-click/long-press
//     classification for one button
//   - [Engine]: the sampling loop, emitting [Event] values on a channel
//   - [Reader]: the minimal driver capability the engine depends on
//
// Users of the gpiopress library should not need to interact with this
// package directly. Configuration is done through the main gpiopress
// package.
package engine
