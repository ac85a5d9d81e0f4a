// Package observable provides the minimal push-based primitives the reactive collections are built
// on: an ordered multi-subscriber broadcast (Subject), a single-value holder that notifies on change
// (Value), and a handful of stream adapters.
//
// Everything in this package is synchronous and single-threaded: Publish walks the subscriber list
// on the caller's goroutine before returning. There is no internal locking.
package observable
