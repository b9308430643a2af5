package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/mocks"
	"github.com/phrazzld/exitcheck/internal/platform/memory"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC) // a Monday

func TestExitEventRecorder_Record(t *testing.T) {
	t.Parallel()
	mem := memory.New()
	rec := service.NewExitEventRecorder(mem.ExitEvents(), nil)
	ctx := context.Background()

	perfect, err := rec.Record(ctx, domain.PerfectOutcome(), t0)
	require.NoError(t, err)
	assert.True(t, perfect.IsPerfect())
	assert.Empty(t, perfect.ForgottenItems)
	assert.Equal(t, time.Monday, perfect.DayOfWeek)
	assert.Equal(t, 8, perfect.HourOfDay)

	rushed, err := rec.Record(ctx, domain.RushedOutcome([]string{"Keys"}), t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, rushed.DismissedEarly)
	assert.Equal(t, []string{"Keys"}, rushed.ForgottenItems)

	n, err := rec.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := rec.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rushed.ID, list[0].ID, "most recent first")
}

func TestExitEventRecorder_RejectsInvalidOutcome(t *testing.T) {
	t.Parallel()
	mem := memory.New()
	rec := service.NewExitEventRecorder(mem.ExitEvents(), nil)

	_, err := rec.Record(context.Background(), domain.ExitOutcome{WasComplete: true, DismissedEarly: true}, t0)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrCompleteAndRushed)
	n, _ := mem.ExitEvents().Count(context.Background())
	assert.Zero(t, n)
}

func TestExitEventRecorder_StoreFailureReturned(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")
	events := &mocks.MockExitEventStore{
		CreateFn: func(context.Context, *domain.ExitEvent) error { return boom },
	}
	rec := service.NewExitEventRecorder(events, nil)

	_, err := rec.Record(context.Background(), domain.PerfectOutcome(), t0)

	assert.ErrorIs(t, err, boom)
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "record", svcErr.Operation)
	assert.Equal(t, 1, events.CreateCalls, "never retried")
}

func TestNewExitEventRecorder_PanicsOnNilStore(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { service.NewExitEventRecorder(nil, nil) })
}
