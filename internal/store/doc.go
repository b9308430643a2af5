// Package store defines the persistence interfaces of the exit checker: the
// single home zone, the checklist items, the append-only exit log and the
// streak singleton. Implementations live under internal/platform and must
// make inserted entities visible to subsequent reads immediately.
package store
