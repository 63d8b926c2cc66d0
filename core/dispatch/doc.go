// Package dispatch routes chat requests to provider adapters by id and
// delivers their events to a callback on a separate goroutine.
package dispatch
