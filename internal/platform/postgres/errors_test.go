package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/exitcheck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{name: "nil_error", err: nil},
		{name: "sql_no_rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{
			name:    "unique_violation",
			err:     &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "exit_events_pkey"},
			wantIs:  store.ErrDuplicate,
			wantMsg: "entity already exists",
		},
		{
			name:    "check_constraint_violation",
			err:     &pgconn.PgError{Code: checkViolationCode, ConstraintName: "exit_events_complete_not_rushed"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "exit_events_complete_not_rushed",
		},
		{
			name:    "not_null_violation",
			err:     &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "column title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)
			if tt.err == nil {
				assert.Nil(t, result)
				return
			}
			require.Error(t, result)
			assert.ErrorIs(t, result, tt.wantIs)
			if tt.wantMsg != "" {
				assert.Contains(t, result.Error(), tt.wantMsg)
			}
		})
	}

	t.Run("unmapped errors pass through", func(t *testing.T) {
		generic := errors.New("some other error")
		assert.Same(t, generic, MapError(generic))

		fk := &pgconn.PgError{Code: "23503"}
		assert.Equal(t, error(fk), MapError(fk))

		unknown := &pgconn.PgError{Code: "99999"}
		assert.Equal(t, error(unknown), MapError(unknown))
	})
}

func TestConstraintPredicates(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("context: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, IsUniqueViolation(wrap(uniqueViolationCode)))
	assert.False(t, IsUniqueViolation(wrap(checkViolationCode)))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsCheckConstraintViolation(wrap(checkViolationCode)))
	assert.False(t, IsCheckConstraintViolation(wrap(notNullViolationCode)))
	assert.False(t, IsCheckConstraintViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, "checklist_item"))

	err := CheckRowsAffected(mockResult{rowsAffected: 0}, "checklist_item")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "checklist_item not found")

	assert.Equal(t, store.ErrNotFound, CheckRowsAffected(mockResult{}, ""))

	err = CheckRowsAffected(mockResult{err: errors.New("driver gone")}, "x")
	assert.ErrorContains(t, err, "failed to get rows affected")

	assert.Error(t, CheckRowsAffected(nil, "x"))
}

func TestMapEntityError(t *testing.T) {
	t.Run("not found uses entity sentinel", func(t *testing.T) {
		err := mapEntityError(sql.ErrNoRows, checklistItemEntity, "get", store.ErrChecklistItemNotFound, nil)

		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, checklistItemEntity, storeErr.Entity)
		assert.Equal(t, "get", storeErr.Operation)
		assert.ErrorIs(t, err, store.ErrChecklistItemNotFound)
	})

	t.Run("duplicate uses entity sentinel and hides driver detail", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolationCode, Detail: "Key (id)=(secret) already exists."}
		err := mapEntityError(pgErr, exitEventEntity, "create", nil, store.ErrExitEventExists)

		assert.ErrorIs(t, err, store.ErrExitEventExists)
		assert.NotContains(t, err.Error(), "secret")
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, mapEntityError(nil, exitEventEntity, "create", nil, nil))
	})
}
