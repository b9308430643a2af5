// Package app wires the exit checker core together: the event bus, the
// location components, the services and the coordination loop that owns
// them. Every operation that touches loop-owned state is marshalled through
// loop.Do.
package app
