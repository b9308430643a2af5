// Package loop provides the single-goroutine coordination context that owns
// the geofence monitor and the exit session. Work is submitted as jobs to a
// bounded queue and executed one at a time, in submission order, so the
// components it owns need no locks of their own.
package loop
