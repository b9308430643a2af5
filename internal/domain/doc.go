// Package domain contains the core business entities, value objects, and
// domain logic of the application: the home zone, the checklist items, the
// append-only exit log and the streak state. It is independent of any
// specific storage engine or location platform.
package domain
