// Package postgres implements the internal/store interfaces on PostgreSQL
// through the pgx database/sql driver. The schema is embedded as goose
// migrations and applied with Migrate.
package postgres
