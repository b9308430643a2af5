package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published by the core.
const (
	TypeExitDetected         = "exit.detected"
	TypeSessionOpened        = "session.opened"
	TypeSessionClosed        = "session.closed"
	TypeAuthorizationChanged = "authorization.changed"
	TypeMonitorStateChanged  = "monitor.state_changed"
)

// Event is a tagged notification published on the bus.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// ExitDetectedPayload is carried by exit.detected.
type ExitDetectedPayload struct {
	RegionIdentifier string    `json:"region_identifier"`
	DetectedAt       time.Time `json:"detected_at"`
}

// SessionItem is one checklist row of an opened session.
type SessionItem struct {
	ItemID  uuid.UUID `json:"item_id"`
	Title   string    `json:"title"`
	Emoji   string    `json:"emoji"`
	Checked bool      `json:"checked"`
}

// SessionOpenedPayload is carried by session.opened.
type SessionOpenedPayload struct {
	SessionID uuid.UUID     `json:"session_id"`
	OpenedAt  time.Time     `json:"opened_at"`
	Trigger   string        `json:"trigger"`
	Items     []SessionItem `json:"items"`
}

// SessionClosedPayload is carried by session.closed.
type SessionClosedPayload struct {
	SessionID      uuid.UUID `json:"session_id"`
	ExitEventID    uuid.UUID `json:"exit_event_id"`
	WasComplete    bool      `json:"was_complete"`
	DismissedEarly bool      `json:"dismissed_early"`
	ForgottenItems []string  `json:"forgotten_items"`
	CurrentStreak  int       `json:"current_streak"`
}

// AuthorizationChangedPayload is carried by authorization.changed.
type AuthorizationChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MonitorStateChangedPayload is carried by monitor.state_changed.
type MonitorStateChangedPayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows components to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// ForTypes wraps h so that it only sees events of the given types.
func ForTypes(h EventHandler, types ...string) EventHandler {
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		for _, t := range types {
			if event.Type == t {
				return h.HandleEvent(ctx, event)
			}
		}
		return nil
	})
}

// Emit builds an event from payload and publishes it on emitter.
func Emit(ctx context.Context, emitter EventEmitter, eventType string, payload interface{}) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	return emitter.EmitEvent(ctx, event)
}
