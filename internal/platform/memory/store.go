package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/store"
)

// Store holds every entity in memory. Returned entities are copies.
type Store struct {
	mu     sync.RWMutex
	home   *domain.HomeLocation
	items  map[uuid.UUID]*domain.ChecklistItem
	events []*domain.ExitEvent
	ids    map[uuid.UUID]struct{}
	streak *domain.StreakState
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		items:  make(map[uuid.UUID]*domain.ChecklistItem),
		ids:    make(map[uuid.UUID]struct{}),
		streak: domain.NewStreakState(),
	}
}

// HomeLocations returns the store.HomeLocationStore view of s.
func (s *Store) HomeLocations() store.HomeLocationStore { return homeLocations{s} }

// ChecklistItems returns the store.ChecklistItemStore view of s.
func (s *Store) ChecklistItems() store.ChecklistItemStore { return checklistItems{s} }

// ExitEvents returns the store.ExitEventStore view of s.
func (s *Store) ExitEvents() store.ExitEventStore { return exitEvents{s} }

// Streaks returns the store.StreakStore view of s.
func (s *Store) Streaks() store.StreakStore { return streaks{s} }

type homeLocations struct{ s *Store }

func (h homeLocations) Get(ctx context.Context) (*domain.HomeLocation, error) {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	if h.s.home == nil {
		return nil, store.ErrHomeLocationNotFound
	}
	c := *h.s.home
	return &c, nil
}

func (h homeLocations) Save(ctx context.Context, home *domain.HomeLocation) error {
	if err := home.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	c := *home
	h.s.home = &c
	return nil
}

func (h homeLocations) Delete(ctx context.Context) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.home = nil
	return nil
}

type checklistItems struct{ s *Store }

func (c checklistItems) Create(ctx context.Context, item *domain.ChecklistItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.items[item.ID]; ok {
		return fmt.Errorf("%w: checklist item %s", store.ErrDuplicate, item.ID)
	}
	c.s.items[item.ID] = cloneItem(item)
	return nil
}

func (c checklistItems) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	item, ok := c.s.items[id]
	if !ok {
		return nil, store.ErrChecklistItemNotFound
	}
	return cloneItem(item), nil
}

func (c checklistItems) Update(ctx context.Context, item *domain.ChecklistItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	existing, ok := c.s.items[item.ID]
	if !ok {
		return store.ErrChecklistItemNotFound
	}
	updated := cloneItem(item)
	updated.CreatedAt = existing.CreatedAt
	c.s.items[item.ID] = updated
	return nil
}

func (c checklistItems) Delete(ctx context.Context, id uuid.UUID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.items[id]; !ok {
		return store.ErrChecklistItemNotFound
	}
	delete(c.s.items, id)
	return nil
}

func (c checklistItems) List(ctx context.Context, filter store.ChecklistItemFilter) ([]*domain.ChecklistItem, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	out := make([]*domain.ChecklistItem, 0, len(c.s.items))
	for _, item := range c.s.items {
		if filter.ActiveOnly && !item.IsActive {
			continue
		}
		if filter.ForgottenOnly && item.ForgottenCount <= 0 {
			continue
		}
		out = append(out, cloneItem(item))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.OrderByForgotten && a.ForgottenCount != b.ForgottenCount {
			return a.ForgottenCount > b.ForgottenCount
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (c checklistItems) Reorder(ctx context.Context, ids []uuid.UUID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, id := range ids {
		if _, ok := c.s.items[id]; !ok {
			return fmt.Errorf("%w: %s", store.ErrChecklistItemNotFound, id)
		}
	}
	for i, id := range ids {
		c.s.items[id].Order = i
	}
	return nil
}

type exitEvents struct{ s *Store }

func (e exitEvents) Create(ctx context.Context, event *domain.ExitEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if _, ok := e.s.ids[event.ID]; ok {
		return store.ErrExitEventExists
	}
	e.s.ids[event.ID] = struct{}{}
	e.s.events = append(e.s.events, cloneEvent(event))
	return nil
}

func (e exitEvents) List(ctx context.Context, order store.SortOrder, limit int) ([]*domain.ExitEvent, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	out := make([]*domain.ExitEvent, 0, len(e.s.events))
	for _, event := range e.s.events {
		out = append(out, cloneEvent(event))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == store.Descending {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e exitEvents) Count(ctx context.Context) (int, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	return len(e.s.events), nil
}

type streaks struct{ s *Store }

func (st streaks) Get(ctx context.Context) (*domain.StreakState, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	return st.s.streak.Clone(), nil
}

func (st streaks) Save(ctx context.Context, state *domain.StreakState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.streak = state.Clone()
	return nil
}

func (st streaks) Reset(ctx context.Context) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.streak = domain.NewStreakState()
	return nil
}

func cloneItem(item *domain.ChecklistItem) *domain.ChecklistItem {
	c := *item
	if item.Category != nil {
		cat := *item.Category
		c.Category = &cat
	}
	if item.LastForgottenAt != nil {
		at := *item.LastForgottenAt
		c.LastForgottenAt = &at
	}
	return &c
}

func cloneEvent(event *domain.ExitEvent) *domain.ExitEvent {
	c := *event
	c.ForgottenItems = slices.Clone(event.ForgottenItems)
	if c.ForgottenItems == nil {
		c.ForgottenItems = []string{}
	}
	return &c
}
