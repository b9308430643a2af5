package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/exitcheck/internal/domain"
	"github.com/phrazzld/exitcheck/internal/location"
)

// CreateItemRequest is the body of POST /api/items.
type CreateItemRequest struct {
	Title    string  `json:"title"              validate:"required,max=100"`
	Emoji    string  `json:"emoji"              validate:"max=16"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=50"`
}

// UpdateItemRequest is the body of PUT /api/items/{id}. Absent fields are
// left unchanged.
type UpdateItemRequest struct {
	Title    *string `json:"title,omitempty"     validate:"omitempty,min=1,max=100"`
	Emoji    *string `json:"emoji,omitempty"     validate:"omitempty,max=16"`
	Category *string `json:"category,omitempty"  validate:"omitempty,max=50"`
	Order    *int    `json:"order,omitempty"     validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ReorderItemsRequest is the body of PUT /api/items/order.
type ReorderItemsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,unique"`
}

// SetHomeRequest is the body of PUT /api/home. A zero radius or empty name
// takes the configured default.
type SetHomeRequest struct {
	Latitude  *float64 `json:"latitude"         validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude"        validate:"required,gte=-180,lte=180"`
	Radius    float64  `json:"radius,omitempty" validate:"gte=0"`
	Name      string   `json:"name,omitempty"   validate:"max=100"`
}

// ToggleItemResponse is the result of toggling a session row.
type ToggleItemResponse struct {
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
}

// MonitorResponse describes the geofence monitor.
type MonitorResponse struct {
	State         string         `json:"state"`
	Reason        string         `json:"reason,omitempty"`
	Authorization string         `json:"authorization"`
	Region        *domain.Region `json:"region,omitempty"`
	LastExitAt    *time.Time     `json:"last_exit_at,omitempty"`
}

func monitorToResponse(st location.Status, auth location.AuthorizationStatus) MonitorResponse {
	resp := MonitorResponse{
		State:         st.State.String(),
		Authorization: auth.String(),
		Region:        st.Region,
		LastExitAt:    st.LastExitAt,
	}
	if st.Reason != nil {
		resp.Reason = GetSafeErrorMessage(st.Reason)
	}
	return resp
}
