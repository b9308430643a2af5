// Package events is the in-process event bus of the exit checker.
//
// Components publish tagged events (an exit was detected, a checklist session
// opened or closed, the location authorization or the monitor state changed)
// without knowing who consumes them. Handlers are called synchronously on the
// emitting goroutine, which in the running application is the coordination
// loop.
package events
