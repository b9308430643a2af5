package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/phrazzld/exitcheck/internal/store"
)

// ChecklistItemUpdate carries the fields to change. Nil fields are left as is.
type ChecklistItemUpdate struct {
	Title    *string
	Emoji    *string
	Category *string
	Order    *int
	IsActive *bool
}

// ChecklistService manages checklist items.
type ChecklistService interface {
	// Create appends a new active item after the existing ones.
	Create(ctx context.Context, title, emoji string, category *string) (*domain.ChecklistItem, error)

	// Update applies the non-nil fields of upd. An empty category clears it.
	Update(ctx context.Context, id uuid.UUID, upd ChecklistItemUpdate) (*domain.ChecklistItem, error)

	// Delete removes an item. Its exit history stays attached to its title.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListActive returns the active items in display order.
	ListActive(ctx context.Context) ([]*domain.ChecklistItem, error)

	// ListAll returns every item in display order.
	ListAll(ctx context.Context) ([]*domain.ChecklistItem, error)

	// Reorder sets the display order to the order of ids.
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

var _ ChecklistService = (*checklistServiceImpl)(nil)

type checklistServiceImpl struct {
	items  store.ChecklistItemStore
	now    func() time.Time
	logger *slog.Logger
}

// NewChecklistService creates a ChecklistService.
func NewChecklistService(items store.ChecklistItemStore, logger *slog.Logger) ChecklistService {
	if items == nil {
		panic("items store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &checklistServiceImpl{
		items:  items,
		now:    time.Now,
		logger: logger.With(slog.String("component", "checklist_service")),
	}
}

func (s *checklistServiceImpl) Create(
	ctx context.Context,
	title, emoji string,
	category *string,
) (*domain.ChecklistItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	all, err := s.items.List(ctx, store.ChecklistItemFilter{})
	if err != nil {
		return nil, NewServiceError("checklist", "create", err)
	}
	order := 0
	for _, it := range all {
		order = max(order, it.Order+1)
	}

	item, err := domain.NewChecklistItem(title, emoji, order, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	item.Category = normalizeCategory(category)

	if err := s.items.Create(ctx, item); err != nil {
		log.Error("failed to create checklist item", slog.String("error", err.Error()))
		return nil, NewServiceError("checklist", "create", err)
	}

	log.Info("checklist item created",
		slog.String("item_id", item.ID.String()),
		slog.Int("order", item.Order))
	return item, nil
}

func (s *checklistServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	upd ChecklistItemUpdate,
) (*domain.ChecklistItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("checklist", "update", err)
	}

	if upd.Title != nil {
		if err := item.Rename(*upd.Title); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	}
	if upd.Emoji != nil {
		item.Emoji = *upd.Emoji
	}
	if upd.Category != nil {
		item.Category = normalizeCategory(upd.Category)
	}
	if upd.Order != nil {
		item.Order = *upd.Order
	}
	if upd.IsActive != nil {
		item.IsActive = *upd.IsActive
	}

	if err := s.items.Update(ctx, item); err != nil {
		log.Error("failed to update checklist item",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("checklist", "update", err)
	}

	log.Debug("checklist item updated", slog.String("item_id", id.String()))
	return item, nil
}

func (s *checklistServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return NewServiceError("checklist", "delete", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("checklist item deleted",
		slog.String("item_id", id.String()))
	return nil
}

func (s *checklistServiceImpl) ListActive(ctx context.Context) ([]*domain.ChecklistItem, error) {
	items, err := s.items.List(ctx, store.ChecklistItemFilter{ActiveOnly: true})
	if err != nil {
		return nil, NewServiceError("checklist", "list_active", err)
	}
	return items, nil
}

func (s *checklistServiceImpl) ListAll(ctx context.Context) ([]*domain.ChecklistItem, error) {
	items, err := s.items.List(ctx, store.ChecklistItemFilter{})
	if err != nil {
		return nil, NewServiceError("checklist", "list_all", err)
	}
	return items, nil
}

func (s *checklistServiceImpl) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if err := s.items.Reorder(ctx, ids); err != nil {
		return NewServiceError("checklist", "reorder", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("checklist reordered", slog.Int("count", len(ids)))
	return nil
}

func normalizeCategory(category *string) *string {
	if category == nil {
		return nil
	}
	c := strings.TrimSpace(*category)
	if c == "" {
		return nil
	}
	return &c
}
