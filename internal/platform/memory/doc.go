// Package memory implements the internal/store interfaces with maps guarded
// by a mutex. It backs the application when no database is configured and
// is used as the store in service tests.
package memory
