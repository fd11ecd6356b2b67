package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
)

var (
	// ErrPoolFull is returned by Submit when the queue has no free slot.
	ErrPoolFull = errors.New("goroutine: pool queue is full")
	// ErrPoolClosed is returned by Submit after Close.
	ErrPoolClosed = errors.New("goroutine: pool is closed")
)

// Task is a unit of work run by a Pool worker.
type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of workers fed by a bounded
// queue. Submit never blocks.
type Pool struct {
	ctx     context.Context
	tasks   chan Task
	quit    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	closed  atomic.Bool
	queued  atomic.Int64
	running atomic.Int64
	failed  atomic.Int64
}

// NewPool starts workers goroutines that run tasks with ctx. Non-positive
// sizes fall back to one worker and a queue of 64.
func NewPool(ctx context.Context, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}

	p := &Pool{
		ctx:   ctx,
		tasks: make(chan Task, queueSize),
		quit:  make(chan struct{}),
	}

	for range workers {
		p.wg.Go(p.work)
	}

	return p
}

// Submit enqueues task without waiting.
func (p *Pool) Submit(task Task) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		p.queued.Inc()
		return nil
	default:
		return ErrPoolFull
	}
}

// Stats reports queued and running task counts.
func (p *Pool) Stats() (queued, running int64) {
	return p.queued.Load(), p.running.Load()
}

// Failed reports how many tasks returned an error or panicked.
func (p *Pool) Failed() int64 {
	return p.failed.Load()
}

// Close stops accepting tasks and waits for workers to finish the task they
// are running. Tasks still queued are dropped; callers must be able to
// recover them from durable state.
func (p *Pool) Close(ctx context.Context) error {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.quit)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if dropped := p.queued.Load(); dropped > 0 {
			slog.WarnContext(ctx, "goroutine pool closed with queued tasks", "dropped", dropped)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) work() {
	for {
		select {
		case <-p.quit:
			return
		case <-p.ctx.Done():
			return
		case task := <-p.tasks:
			p.queued.Dec()
			p.run(task)
		}
	}
}

func (p *Pool) run(task Task) {
	p.running.Inc()
	defer func() {
		p.running.Dec()
		if rvr := recover(); rvr != nil {
			p.failed.Inc()
			logPanic(p.ctx, "pool task", rvr)
		}
	}()

	if err := task(p.ctx); err != nil {
		p.failed.Inc()
		slog.ErrorContext(p.ctx, "pool task failed", "error", err)
	}
}
