package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/phrazzld/exitcheck/internal/app"
	"github.com/phrazzld/exitcheck/internal/events"
	"github.com/phrazzld/exitcheck/internal/platform/feed"
	"github.com/phrazzld/exitcheck/internal/service/exit_session"
)

// eventPrinter writes core events and session results to out as JSON
// lines. It is also the notifier for background sessions.
type eventPrinter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var (
	_ events.EventHandler   = (*eventPrinter)(nil)
	_ exit_session.Notifier = (*eventPrinter)(nil)
)

func newEventPrinter(out io.Writer) *eventPrinter {
	return &eventPrinter{enc: json.NewEncoder(out)}
}

type printedLine struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func (p *eventPrinter) print(kind string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(printedLine{Type: kind, Payload: payload})
}

// HandleEvent implements events.EventHandler.
func (p *eventPrinter) HandleEvent(_ context.Context, event *events.Event) error {
	return p.print(event.Type, event.Payload)
}

// ScheduleExitPrompt implements exit_session.Notifier.
func (p *eventPrinter) ScheduleExitPrompt(context.Context) error {
	return p.print("notification.scheduled", nil)
}

// scriptActions performs the user steps of a feed against the core.
type scriptActions struct {
	core    *app.App
	printer *eventPrinter
}

var _ feed.Actions = (*scriptActions)(nil)

func (s *scriptActions) SetHome(ctx context.Context, latitude, longitude, radius float64, name string) error {
	_, err := s.core.SetHome(ctx, latitude, longitude, radius, name)
	return err
}

func (s *scriptActions) AddItem(ctx context.Context, title string) error {
	_, err := s.core.CreateItem(ctx, title, "", nil)
	return err
}

func (s *scriptActions) TriggerTest(ctx context.Context) error {
	_, err := s.core.TriggerTestSession(ctx)
	return err
}

// Check marks the session row titled title, matching case-insensitively.
// An already checked row is left alone.
func (s *scriptActions) Check(ctx context.Context, title string) error {
	session, ok, err := s.core.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return exit_session.ErrNoOpenSession
	}
	for _, e := range session.Entries() {
		if !strings.EqualFold(e.Title, title) {
			continue
		}
		if e.Checked {
			return nil
		}
		_, err := s.core.ToggleItem(ctx, e.ItemID)
		return err
	}
	return fmt.Errorf("%w: %q", exit_session.ErrUnknownItem, title)
}

func (s *scriptActions) Complete(ctx context.Context) error {
	res, err := s.core.CompleteSession(ctx)
	if err != nil {
		return err
	}
	return s.printer.print("session.result", res)
}

func (s *scriptActions) Rush(ctx context.Context) error {
	res, err := s.core.RushSession(ctx)
	if err != nil {
		return err
	}
	return s.printer.print("session.result", res)
}

func (s *scriptActions) Dismiss(ctx context.Context) error {
	return s.core.DismissSession(ctx)
}
