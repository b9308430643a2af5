package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/exitcheck/internal/store"
)

// SQLSTATE codes raised by the exitcheck schema.
const (
	uniqueViolationCode  = "23505"
	checkViolationCode   = "23514"
	notNullViolationCode = "23502"
)

// MapError translates a driver error into the store error family. The
// CHECK constraints in the migrations mirror domain validation, so a check
// or not-null violation means an entity bypassed Validate and is reported
// as store.ErrInvalidEntity. Unknown errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case checkViolationCode:
		return fmt.Errorf("%w: constraint %s violated", store.ErrInvalidEntity, pgErr.ConstraintName)
	case notNullViolationCode:
		return fmt.Errorf("%w: column %s is required", store.ErrInvalidEntity, pgErr.ColumnName)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

// IsCheckConstraintViolation reports whether err is a CHECK violation.
func IsCheckConstraintViolation(err error) bool {
	return hasCode(err, checkViolationCode)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// CheckRowsAffected returns store.ErrNotFound when an UPDATE or DELETE
// matched no row.
func CheckRowsAffected(result sql.Result, entityName string) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if entityName == "" {
			return store.ErrNotFound
		}
		return fmt.Errorf("%w: %s not found", store.ErrNotFound, entityName)
	}

	return nil
}

// mapEntityError maps err like MapError and wraps it in a store.StoreError
// for the given entity and operation. A not-found or duplicate condition is
// reported with the entity-specific sentinel when one is given.
func mapEntityError(err error, entity, operation string, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	mapped := MapError(err)
	switch {
	case notFound != nil && errors.Is(mapped, store.ErrNotFound):
		mapped = notFound
	case duplicate != nil && errors.Is(mapped, store.ErrDuplicate):
		mapped = duplicate
	}
	return store.NewStoreError(entity, operation, "database operation failed", mapped)
}
