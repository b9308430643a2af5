package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := ExitDetectedPayload{
		RegionIdentifier: "home_geofence_" + uuid.NewString(),
		DetectedAt:       time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}

	event, err := NewEvent(TypeExitDetected, payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeExitDetected, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded ExitDetectedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload.RegionIdentifier, decoded.RegionIdentifier)
	assert.True(t, payload.DetectedAt.Equal(decoded.DetectedAt))
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("bad", make(chan int))
	var unsupported *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	h := HandlerFunc(func(ctx context.Context, event *Event) error {
		got = event
		return errors.New("boom")
	})

	event, err := NewEvent(TypeSessionOpened, SessionOpenedPayload{SessionID: uuid.New()})
	require.NoError(t, err)

	assert.EqualError(t, h.HandleEvent(context.Background(), event), "boom")
	assert.Same(t, event, got)
}

func TestForTypes(t *testing.T) {
	inner := &MockEventHandler{}
	h := ForTypes(inner, TypeExitDetected, TypeSessionClosed)

	for _, typ := range []string{TypeExitDetected, TypeSessionOpened, TypeSessionClosed, TypeMonitorStateChanged} {
		event, err := NewEvent(typ, struct{}{})
		require.NoError(t, err)
		require.NoError(t, h.HandleEvent(context.Background(), event))
	}

	assert.Equal(t, 2, inner.HandledCount)
	assert.Equal(t, TypeSessionClosed, inner.LastEvent.Type)
}
