package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the Loop
var (
	ErrQueueClosed = errors.New("loop queue is closed")
	ErrQueueFull   = errors.New("loop queue is full")
	ErrJobPanicked = errors.New("loop job panicked")
)

// DefaultQueueSize is used when Config.QueueSize is not positive.
const DefaultQueueSize = 64

// Job is a unit of work executed on the loop goroutine.
type Job func(ctx context.Context) error

// Config holds configuration for the loop.
type Config struct {
	// QueueSize is the capacity of the job buffer.
	QueueSize int
}

type queued struct {
	name string
	fn   Job
	done chan error
}

// Loop executes jobs sequentially on one worker goroutine.
type Loop struct {
	jobs chan queued

	// mu guards closed and the send side of jobs.
	mu     sync.RWMutex
	closed bool

	started bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	logger     *slog.Logger
	errHandler func(name string, err error)
}

// New creates a loop. Call Start to begin processing.
func New(cfg Config, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "loop"))

	size := cfg.QueueSize
	if size <= 0 {
		logger.Warn("invalid queue size specified, using default",
			slog.Int("specified_size", cfg.QueueSize),
			slog.Int("default_size", DefaultQueueSize))
		size = DefaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		jobs:   make(chan queued, size),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
		errHandler: func(name string, err error) {
			logger.Error("job failed", slog.String("job", name), slog.String("error", err.Error()))
		},
	}
}

// SetErrorHandler replaces the handler called when a submitted job fails.
// Jobs run through Do report their error to the caller instead.
func (l *Loop) SetErrorHandler(handler func(name string, err error)) {
	l.errHandler = handler
}

// Start launches the worker goroutine. It is a no-op when already started.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true

	l.wg.Add(1)
	go l.run()
	l.logger.Debug("loop started", slog.Int("queue_cap", cap(l.jobs)))
}

// Stop closes the queue, waits for already queued jobs to finish and returns.
// Jobs see their context cancelled once Stop has drained the queue.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.jobs)
	started := l.started
	l.mu.Unlock()

	if started {
		l.wg.Wait()
	} else {
		// Never started: fail anything still waiting.
		for q := range l.jobs {
			if q.done != nil {
				q.done <- ErrQueueClosed
			}
		}
	}
	l.cancel()
	l.logger.Info("loop stopped")
}

// Submit queues fn without waiting for it. It fails fast with ErrQueueFull
// when the buffer is at capacity and ErrQueueClosed after Stop.
func (l *Loop) Submit(name string, fn Job) error {
	return l.enqueue(queued{name: name, fn: fn})
}

// Do queues fn and waits for its result. If ctx ends first Do returns the
// context error and fn is skipped when its turn comes. Do must not be called
// from inside a job.
func (l *Loop) Do(ctx context.Context, name string, fn Job) error {
	done := make(chan error, 1)
	wrapped := func(jobCtx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(ctx)
	}

	if err := l.enqueue(queued{name: name, fn: wrapped, done: done}); err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of queued jobs.
func (l *Loop) Len() int {
	return len(l.jobs)
}

func (l *Loop) enqueue(q queued) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return ErrQueueClosed
	}

	select {
	case l.jobs <- q:
		l.logger.Debug("job enqueued",
			slog.String("job", q.name),
			slog.Int("queue_len", len(l.jobs)),
			slog.Int("queue_cap", cap(l.jobs)))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(l.jobs))
	}
}

func (l *Loop) run() {
	defer l.wg.Done()
	for q := range l.jobs {
		err := l.execute(q)
		if q.done != nil {
			q.done <- err
			continue
		}
		if err != nil && l.errHandler != nil {
			l.errHandler(q.name, err)
		}
	}
}

func (l *Loop) execute(q queued) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("job panicked", slog.String("job", q.name), slog.Any("panic", r))
			err = fmt.Errorf("%w: %s: %v", ErrJobPanicked, q.name, r)
		}
	}()
	return q.fn(l.ctx)
}
