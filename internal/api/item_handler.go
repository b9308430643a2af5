package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/api/shared"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/service"
)

// ItemManager edits the checklist.
type ItemManager interface {
	ListItems(ctx context.Context) ([]*domain.ChecklistItem, error)
	CreateItem(ctx context.Context, title, emoji string, category *string) (*domain.ChecklistItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, upd service.ChecklistItemUpdate) (*domain.ChecklistItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ReorderItems(ctx context.Context, ids []uuid.UUID) error
}

// ItemHandler exposes the checklist items.
type ItemHandler struct {
	items ItemManager
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(items ItemManager) *ItemHandler {
	if items == nil {
		panic("items cannot be nil")
	}
	return &ItemHandler{items: items}
}

// ListItems handles GET /api/items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListItems(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list checklist items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// CreateItem handles POST /api/items.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.CreateItem(r.Context(), req.Title, req.Emoji, req.Category)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/{id}.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.UpdateItem(r.Context(), id, service.ChecklistItemUpdate{
		Title:    req.Title,
		Emoji:    req.Emoji,
		Category: req.Category,
		Order:    req.Order,
		IsActive: req.IsActive,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/{id}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid item ID")
		return
	}
	if err := h.items.DeleteItem(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderItems handles PUT /api/items/order. The body lists item IDs in
// their new display order and the full list is returned.
func (h *ItemHandler) ReorderItems(w http.ResponseWriter, r *http.Request) {
	var req ReorderItemsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.items.ReorderItems(r.Context(), req.IDs); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	items, err := h.items.ListItems(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list checklist items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}
