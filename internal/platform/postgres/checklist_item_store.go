package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

const checklistItemEntity = "checklist_item"

const checklistItemColumns = `id, title, emoji, sort_order, is_active, category, created_at, forgotten_count, last_forgotten_at`

// PostgresChecklistItemStore implements store.ChecklistItemStore.
type PostgresChecklistItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChecklistItemStore creates a new PostgreSQL implementation of
// the ChecklistItemStore interface.
func NewPostgresChecklistItemStore(db store.DBTX, logger *slog.Logger) *PostgresChecklistItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresChecklistItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "checklist_item_store")),
	}
}

var _ store.ChecklistItemStore = (*PostgresChecklistItemStore)(nil)

// WithTx returns a store that runs its statements in tx.
func (s *PostgresChecklistItemStore) WithTx(tx *sql.Tx) *PostgresChecklistItemStore {
	return &PostgresChecklistItemStore{db: tx, logger: s.logger}
}

// Create implements store.ChecklistItemStore.Create.
func (s *PostgresChecklistItemStore) Create(ctx context.Context, item *domain.ChecklistItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (`+checklistItemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, item.ID, item.Title, item.Emoji, item.Order, item.IsActive,
		nullString(item.Category), item.CreatedAt, item.ForgottenCount, nullTime(item.LastForgottenAt))
	if err != nil {
		log.Error("failed to create checklist item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return mapEntityError(err, checklistItemEntity, "create", nil, nil)
	}

	return nil
}

// GetByID implements store.ChecklistItemStore.GetByID.
func (s *PostgresChecklistItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checklistItemColumns+` FROM checklist_items WHERE id = $1`, id)

	item, err := scanChecklistItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChecklistItemNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get checklist item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, mapEntityError(err, checklistItemEntity, "get", store.ErrChecklistItemNotFound, nil)
	}
	return item, nil
}

// Update implements store.ChecklistItemStore.Update.
func (s *PostgresChecklistItemStore) Update(ctx context.Context, item *domain.ChecklistItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE checklist_items SET
			title = $2,
			emoji = $3,
			sort_order = $4,
			is_active = $5,
			category = $6,
			forgotten_count = $7,
			last_forgotten_at = $8
		WHERE id = $1
	`, item.ID, item.Title, item.Emoji, item.Order, item.IsActive,
		nullString(item.Category), item.ForgottenCount, nullTime(item.LastForgottenAt))
	if err != nil {
		log.Error("failed to update checklist item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return mapEntityError(err, checklistItemEntity, "update", store.ErrChecklistItemNotFound, nil)
	}

	if err := CheckRowsAffected(result, checklistItemEntity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrChecklistItemNotFound
		}
		return err
	}
	return nil
}

// Delete implements store.ChecklistItemStore.Delete.
func (s *PostgresChecklistItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM checklist_items WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete checklist item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return mapEntityError(err, checklistItemEntity, "delete", store.ErrChecklistItemNotFound, nil)
	}

	if err := CheckRowsAffected(result, checklistItemEntity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrChecklistItemNotFound
		}
		return err
	}
	return nil
}

// List implements store.ChecklistItemStore.List.
func (s *PostgresChecklistItemStore) List(ctx context.Context, filter store.ChecklistItemFilter) ([]*domain.ChecklistItem, error) {
	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list checklist items",
			slog.String("error", err.Error()))
		return nil, mapEntityError(err, checklistItemEntity, "list", nil, nil)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.ChecklistItem, 0)
	for rows.Next() {
		item, err := scanChecklistItem(rows)
		if err != nil {
			return nil, mapEntityError(err, checklistItemEntity, "list", nil, nil)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapEntityError(err, checklistItemEntity, "list", nil, nil)
	}

	return items, nil
}

// Reorder implements store.ChecklistItemStore.Reorder. When the store is not
// already bound to a transaction it opens one.
func (s *PostgresChecklistItemStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.reorder(ctx, ids)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).reorder(ctx, ids)
	})
}

func (s *PostgresChecklistItemStore) reorder(ctx context.Context, ids []uuid.UUID) error {
	for i, id := range ids {
		result, err := s.db.ExecContext(ctx,
			`UPDATE checklist_items SET sort_order = $2 WHERE id = $1`, id, i)
		if err != nil {
			return mapEntityError(err, checklistItemEntity, "reorder", nil, nil)
		}
		if err := CheckRowsAffected(result, checklistItemEntity); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: %s", store.ErrChecklistItemNotFound, id)
			}
			return err
		}
	}
	return nil
}

func buildListQuery(filter store.ChecklistItemFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT ` + checklistItemColumns + ` FROM checklist_items`)

	conds := make([]string, 0, 2)
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.ForgottenOnly {
		conds = append(conds, "forgotten_count > 0")
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if filter.OrderByForgotten {
		b.WriteString(" ORDER BY forgotten_count DESC, sort_order, created_at")
	} else {
		b.WriteString(" ORDER BY sort_order, created_at")
	}

	args := make([]any, 0, 1)
	if filter.Limit > 0 {
		b.WriteString(" LIMIT $1")
		args = append(args, filter.Limit)
	}
	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChecklistItem(row rowScanner) (*domain.ChecklistItem, error) {
	var (
		item          domain.ChecklistItem
		category      sql.NullString
		lastForgotten sql.NullTime
	)
	if err := row.Scan(&item.ID, &item.Title, &item.Emoji, &item.Order, &item.IsActive,
		&category, &item.CreatedAt, &item.ForgottenCount, &lastForgotten); err != nil {
		return nil, err
	}
	if category.Valid {
		c := category.String
		item.Category = &c
	}
	if lastForgotten.Valid {
		t := lastForgotten.Time
		item.LastForgottenAt = &t
	}
	return &item, nil
}
