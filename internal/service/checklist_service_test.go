package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/platform/memory"
	"github.com/phrazzld/exitcheck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestChecklistService_CreateAppends(t *testing.T) {
	t.Parallel()
	svc := service.NewChecklistService(memory.New().ChecklistItems(), nil)
	ctx := context.Background()

	keys, err := svc.Create(ctx, "  Keys ", "🔑", nil)
	require.NoError(t, err)
	wallet, err := svc.Create(ctx, "Wallet", "👛", ptr("essentials"))
	require.NoError(t, err)

	assert.Equal(t, "Keys", keys.Title)
	assert.Equal(t, 0, keys.Order)
	assert.Equal(t, 1, wallet.Order)
	require.NotNil(t, wallet.Category)
	assert.Equal(t, "essentials", *wallet.Category)

	_, err = svc.Create(ctx, "   ", "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrItemTitleEmpty)
}

func TestChecklistService_Update(t *testing.T) {
	t.Parallel()
	svc := service.NewChecklistService(memory.New().ChecklistItems(), nil)
	ctx := context.Background()

	item, err := svc.Create(ctx, "Keys", "🔑", ptr("home"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, service.ChecklistItemUpdate{
		Title:    ptr("House keys"),
		Category: ptr(""),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "House keys", updated.Title)
	assert.Equal(t, "🔑", updated.Emoji)
	assert.Nil(t, updated.Category)
	assert.False(t, updated.IsActive)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Update(ctx, item.ID, service.ChecklistItemUpdate{Title: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChecklistService_NotFound(t *testing.T) {
	t.Parallel()
	svc := service.NewChecklistService(memory.New().ChecklistItems(), nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), service.ChecklistItemUpdate{})
	assert.ErrorIs(t, err, service.ErrItemNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), service.ErrItemNotFound)
	assert.ErrorIs(t, svc.Reorder(ctx, []uuid.UUID{uuid.New()}), service.ErrItemNotFound)
}

func TestChecklistService_ReorderAndDelete(t *testing.T) {
	t.Parallel()
	svc := service.NewChecklistService(memory.New().ChecklistItems(), nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "A", "", nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "B", "", nil)
	require.NoError(t, err)
	c, err := svc.Create(ctx, "C", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Reorder(ctx, []uuid.UUID{c.ID, a.ID, b.ID}))

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{list[0].Title, list[1].Title, list[2].Title})

	require.NoError(t, svc.Delete(ctx, a.ID))
	list, err = svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
