package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestStoreConstructorsPanicOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresHomeLocationStore(nil, discard) })
	assert.Panics(t, func() { NewPostgresChecklistItemStore(nil, discard) })
	assert.Panics(t, func() { NewPostgresExitEventStore(nil, discard) })
	assert.Panics(t, func() { NewPostgresStreakStore(nil, discard) })
}

func TestHomeLocationStore_Get(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresHomeLocationStore(db, discard)
	ctx := context.Background()

	id := uuid.New()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM home_locations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "latitude", "longitude", "radius", "name", "created_at", "updated_at"}).
			AddRow(id.String(), 52.5, 13.4, 150.0, "Flat", now, now))

	home, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, home.ID)
	assert.Equal(t, 150.0, home.Radius)
	assert.Equal(t, "Flat", home.Name)

	mock.ExpectQuery("SELECT (.+) FROM home_locations").WillReturnError(sql.ErrNoRows)
	_, err = s.Get(ctx)
	assert.ErrorIs(t, err, store.ErrHomeLocationNotFound)
}

func TestHomeLocationStore_Save(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresHomeLocationStore(db, discard)
	ctx := context.Background()

	home, err := domain.NewHomeLocation(52.5, 13.4, 100, "Home", time.Now())
	require.NoError(t, err)

	mock.ExpectExec("DELETE FROM home_locations WHERE id <> \\$1\\s+\\)\\s+INSERT INTO home_locations").
		WithArgs(home.ID, home.Latitude, home.Longitude, home.Radius, home.Name, home.CreatedAt, home.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Save(ctx, home))

	invalid := *home
	invalid.Radius = 10
	assert.ErrorIs(t, s.Save(ctx, &invalid), store.ErrInvalidEntity)

	mock.ExpectExec("DELETE FROM home_locations").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.Delete(ctx))
}

func TestChecklistItemStore_CRUD(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresChecklistItemStore(db, discard)
	ctx := context.Background()

	item, err := domain.NewChecklistItem("Keys", "🔑", 0, time.Now())
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO checklist_items").
		WithArgs(item.ID, "Keys", "🔑", 0, true, sql.NullString{}, item.CreatedAt, 0, sql.NullTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Create(ctx, item))

	forgottenAt := time.Now().UTC()
	category := "essentials"
	mock.ExpectQuery("SELECT (.+) FROM checklist_items WHERE id = \\$1").
		WithArgs(item.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "emoji", "sort_order", "is_active", "category", "created_at", "forgotten_count", "last_forgotten_at"}).
			AddRow(item.ID.String(), "Keys", "🔑", 0, true, category, item.CreatedAt, 3, forgottenAt))
	got, err := s.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ForgottenCount)
	require.NotNil(t, got.Category)
	assert.Equal(t, category, *got.Category)
	require.NotNil(t, got.LastForgottenAt)

	missing := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM checklist_items WHERE id = \\$1").
		WithArgs(missing).WillReturnError(sql.ErrNoRows)
	_, err = s.GetByID(ctx, missing)
	assert.ErrorIs(t, err, store.ErrChecklistItemNotFound)

	item.MarkForgotten(forgottenAt)
	mock.ExpectExec("UPDATE checklist_items SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Update(ctx, item))

	mock.ExpectExec("UPDATE checklist_items SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Update(ctx, item), store.ErrChecklistItemNotFound)

	mock.ExpectExec("DELETE FROM checklist_items WHERE id = \\$1").
		WithArgs(item.ID).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(ctx, item.ID), store.ErrChecklistItemNotFound)
}

func TestChecklistItemStore_CreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresChecklistItemStore(db, discard)

	item, err := domain.NewChecklistItem("Keys", "", 0, time.Now())
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO checklist_items").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err = s.Create(context.Background(), item)
	assert.True(t, store.IsDuplicateError(err))
	var storeErr *store.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestChecklistItemStore_Reorder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("commits when every row exists", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresChecklistItemStore(db, discard)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE checklist_items SET sort_order").WithArgs(ids[0], 0).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE checklist_items SET sort_order").WithArgs(ids[1], 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, s.Reorder(context.Background(), ids))
	})

	t.Run("rolls back on a missing row", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresChecklistItemStore(db, discard)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE checklist_items SET sort_order").WithArgs(ids[0], 0).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE checklist_items SET sort_order").WithArgs(ids[1], 1).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, s.Reorder(context.Background(), ids), store.ErrChecklistItemNotFound)
	})
}

func TestBuildListQuery(t *testing.T) {
	q, args := buildListQuery(store.ChecklistItemFilter{})
	assert.Contains(t, q, "ORDER BY sort_order, created_at")
	assert.NotContains(t, q, "WHERE")
	assert.Empty(t, args)

	q, args = buildListQuery(store.ChecklistItemFilter{
		ActiveOnly: true, ForgottenOnly: true, OrderByForgotten: true, Limit: 5,
	})
	assert.Contains(t, q, "WHERE is_active AND forgotten_count > 0")
	assert.Contains(t, q, "ORDER BY forgotten_count DESC")
	assert.Contains(t, q, "LIMIT $1")
	assert.Equal(t, []any{5}, args)
}

func TestExitEventStore(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresExitEventStore(db, discard)
	ctx := context.Background()

	at := time.Date(2025, 3, 12, 8, 15, 0, 0, time.UTC)
	event, err := domain.NewExitEvent(domain.RushedOutcome([]string{"Wallet", "Phone"}), at)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO exit_events").
		WithArgs(event.ID, at, false, true, `["Wallet","Phone"]`, 3, 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Create(ctx, event))

	mock.ExpectExec("INSERT INTO exit_events").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})
	assert.ErrorIs(t, s.Create(ctx, event), store.ErrExitEventExists)

	mock.ExpectQuery("SELECT (.+) FROM exit_events\\s+ORDER BY occurred_at DESC, id LIMIT \\$1").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at", "was_complete", "dismissed_early", "forgotten_items", "day_of_week", "hour_of_day"}).
			AddRow(event.ID.String(), at, false, true, []byte(`["Wallet","Phone"]`), 3, 8).
			AddRow(uuid.NewString(), at.Add(-time.Hour), true, false, []byte(`[]`), 3, 7))
	events, err := s.List(ctx, store.Descending, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []string{"Wallet", "Phone"}, events[0].ForgottenItems)
	assert.Equal(t, time.Wednesday, events[0].DayOfWeek)
	assert.Equal(t, []string{}, events[1].ForgottenItems)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM exit_events").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestExitEventStore_RejectsInvalid(t *testing.T) {
	db, _ := newMock(t)
	s := NewPostgresExitEventStore(db, discard)

	bad := &domain.ExitEvent{ID: uuid.New(), Timestamp: time.Now(), WasComplete: true, DismissedEarly: true}
	assert.ErrorIs(t, s.Create(context.Background(), bad), store.ErrInvalidEntity)
}

func TestStreakStore(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresStreakStore(db, discard)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM streak_state").WillReturnError(sql.ErrNoRows)
	state, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentStreak)
	assert.Nil(t, state.LastPerfectExitAt)

	last := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	state = &domain.StreakState{CurrentStreak: 2, TotalPerfectExits: 5, LastPerfectExitAt: &last, UpdatedAt: last}
	mock.ExpectExec("INSERT INTO streak_state").
		WithArgs(2, sql.NullTime{Time: last, Valid: true}, 5, last).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Save(ctx, state))

	mock.ExpectQuery("SELECT (.+) FROM streak_state").
		WillReturnRows(sqlmock.NewRows([]string{"current_streak", "last_perfect_exit_at", "total_perfect_exits", "updated_at"}).
			AddRow(2, last, 5, last))
	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	require.NotNil(t, got.LastPerfectExitAt)
	assert.True(t, got.LastPerfectExitAt.Equal(last))

	mock.ExpectExec("DELETE FROM streak_state").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Reset(ctx))

	mock.ExpectQuery("SELECT (.+) FROM streak_state").WillReturnError(errors.New("connection reset"))
	_, err = s.Get(ctx)
	var storeErr *store.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 4)
	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version)
	}
}

func TestMigrate_UnknownCommand(t *testing.T) {
	db, _ := newMock(t)
	assert.ErrorContains(t, Migrate(context.Background(), db, "sideways", discard), "unknown migration command")
}

func TestOpen_RequiresURL(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{MaxOpenConns: 1}, discard)
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}
