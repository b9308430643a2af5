package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/loop"
)

// fullQueueRetry is how long the pump waits before offering a signal again
// to a full loop.
const fullQueueRetry = 10 * time.Millisecond

// SignalHandler applies one platform signal on the loop.
type SignalHandler func(ctx context.Context, sig location.Signal) error

// Pump drains a location signal channel into the loop. It touches no state
// itself; each signal becomes a job.
type Pump struct {
	signals <-chan location.Signal
	loop    *loop.Loop
	handle  SignalHandler
	logger  *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPump creates a pump. Call Start to begin draining.
func NewPump(signals <-chan location.Signal, l *loop.Loop, handle SignalHandler, logger *slog.Logger) *Pump {
	if signals == nil {
		panic("signals cannot be nil")
	}
	if l == nil {
		panic("loop cannot be nil")
	}
	if handle == nil {
		panic("handle cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pump{
		signals: signals,
		loop:    l,
		handle:  handle,
		logger:  logger.With(slog.String("component", "signal_pump")),
	}
}

// Start launches the draining goroutine. It runs until ctx ends, Stop is
// called or the signal channel is closed.
func (p *Pump) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.run(ctx)
}

// Stop ends the pump and waits for it to exit.
func (p *Pump) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Wait blocks until the pump exits.
func (p *Pump) Wait() {
	p.wg.Wait()
}

func (p *Pump) run(ctx context.Context) {
	defer p.wg.Done()
	p.logger.Debug("signal pump started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("signal pump stopped")
			return
		case sig, ok := <-p.signals:
			if !ok {
				p.logger.Info("signal channel closed")
				return
			}
			err := p.deliver(ctx, sig)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				p.logger.Error("failed to handle location signal",
					slog.String("kind", sig.Kind.String()),
					slog.String("error", err.Error()))
			}
		}
	}
}

// deliver runs sig on the loop. A full queue slows the pump down instead of
// dropping the signal.
func (p *Pump) deliver(ctx context.Context, sig location.Signal) error {
	name := "signal:" + sig.Kind.String()
	for {
		err := p.loop.Do(ctx, name, func(ctx context.Context) error {
			return p.handle(ctx, sig)
		})
		if !errors.Is(err, loop.ErrQueueFull) {
			return err
		}
		p.logger.Warn("loop queue full, retrying signal", slog.String("kind", sig.Kind.String()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(fullQueueRetry):
		}
	}
}
