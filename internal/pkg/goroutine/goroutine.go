package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/gonotif/internal/pkg/stacktrace"
)

// Manager owns the long-lived loops of the process: queue consumers and the
// stale delivery sweep. Wait closes it and joins their errors.
type Manager struct {
	slots chan struct{}
	wg    sync.WaitGroup

	// gate is read-held while a job is being admitted so Wait cannot close
	// the manager between the closed check and wg.Add.
	gate   sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

// NewManager caps concurrent jobs at limit, or 100 per CPU when limit < 1.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * 100
	}
	return &Manager{slots: make(chan struct{}, limit)}
}

// Go starts job under name and reports whether it was admitted. Returning
// context.Canceled is a clean stop; other errors are kept for Wait.
func (m *Manager) Go(ctx context.Context, name string, job func(ctx context.Context) error) bool {
	if m == nil {
		return false
	}

	m.gate.RLock()
	defer m.gate.RUnlock()

	if m.closed {
		slog.WarnContext(ctx, "job rejected, manager is closed", "job", name)
		return false
	}

	select {
	case m.slots <- struct{}{}:
	default:
		slog.WarnContext(ctx, "job rejected, manager is at capacity", "job", name, "limit", cap(m.slots))
		return false
	}

	m.wg.Go(func() {
		defer func() {
			<-m.slots
			if rvr := recover(); rvr != nil {
				logPanic(ctx, "job "+name, rvr)
			}
		}()

		if ctx.Err() != nil {
			slog.WarnContext(ctx, "job skipped, context done", "job", name, "because", ctx.Err())
			return
		}

		if err := job(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.errMu.Lock()
			m.errs = append(m.errs, fmt.Errorf("%s: %w", name, err))
			m.errMu.Unlock()
		}
	})

	return true
}

// Wait stops admitting jobs and blocks until the running ones return.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.gate.Lock()
	m.closed = true
	m.gate.Unlock()

	m.wg.Wait()

	m.errMu.Lock()
	defer m.errMu.Unlock()
	return errors.Join(m.errs...)
}

// logPanic logs a recovered value with the module frames of the stack, or
// the whole stack when none are found.
func logPanic(ctx context.Context, where string, rvr any) {
	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic in "+where, "because", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic in "+where, "because", rvr, "stack", string(stack))
}
