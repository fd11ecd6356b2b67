// Package idempotency keeps a per-key marker in redis so one unit of work,
// such as a single delivery attempt, runs once across all instances.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation in progress elsewhere")
	ErrAlreadyCompleted  = errors.New("idempotency: operation already completed")
	ErrAlreadyFailed     = errors.New("idempotency: operation already failed")
	ErrInvalidState      = errors.New("idempotency: unexpected marker value")
)

// State is the marker stored under a key.
type State string

const (
	// StateNone is returned to the caller that just took the lock.
	StateNone       State = "none"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateError      State = "error"
)

func (s State) String() string { return string(s) }

// duplicateOf maps a marker held by someone else to the error Exec returns.
var duplicateOf = map[State]error{
	StateInProgress: ErrAlreadyInProgress,
	StateCompleted:  ErrAlreadyCompleted,
	StateFailed:     ErrAlreadyFailed,
}

// IsDuplicate reports whether Exec skipped fn because the key was taken.
func IsDuplicate(err error) bool {
	for _, dup := range duplicateOf {
		if errors.Is(err, dup) {
			return true
		}
	}
	return false
}

// acquireScript sets the in-progress marker when the key is free and
// otherwise returns the current marker, in one round trip.
var acquireScript = redis.NewScript(`
if redis.call("SET", KEYS[1], ARGV[1], "NX", "PX", ARGV[2]) then
	return ""
end
return redis.call("GET", KEYS[1])
`)

const defaultPrefix = "idempotency:"

type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

// New namespaces keys with prefix, "idempotency:" when empty.
func New(client redis.UniversalClient, prefix string) *StateTracker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &StateTracker{client: client, prefix: prefix}
}

// Acquire returns StateNone when the caller now owns key for lock.
func (s *StateTracker) Acquire(ctx context.Context, key string, lock time.Duration) (State, error) {
	held, err := acquireScript.Run(ctx, s.client, []string{s.prefix + key},
		StateInProgress.String(), lock.Milliseconds()).Text()
	if err != nil {
		return StateError, fmt.Errorf("idempotency: acquire %s: %w", key, err)
	}
	if held == "" {
		return StateNone, nil
	}

	state := State(held)
	if _, ok := duplicateOf[state]; !ok {
		return StateError, fmt.Errorf("%w: %q", ErrInvalidState, held)
	}
	return state, nil
}

func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.mark(ctx, key, StateCompleted, ttl)
}

func (s *StateTracker) MarkFailed(ctx context.Context, key string, ttl time.Duration) error {
	return s.mark(ctx, key, StateFailed, ttl)
}

func (s *StateTracker) mark(ctx context.Context, key string, state State, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, state.String(), ttl).Err()
}

type execOptions struct {
	lock     time.Duration
	stateTTL time.Duration
}

type Option func(*execOptions)

// WithLockDuration bounds the in-progress marker in case the owner dies
// before recording a result. Non-positive keeps the one minute default.
func WithLockDuration(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.lock = d
		}
	}
}

// WithStateTTL sets how long the outcome is remembered. Non-positive keeps
// the one minute default.
func WithStateTTL(d time.Duration) Option {
	return func(o *execOptions) {
		if d > 0 {
			o.stateTTL = d
		}
	}
}

// Exec runs fn unless key is held or finished within the state TTL. The
// outcome marker is written even when fn fails.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	o := execOptions{lock: time.Minute, stateTTL: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	state, err := s.Acquire(ctx, key, o.lock)
	if err != nil {
		return err
	}
	if dup, taken := duplicateOf[state]; taken {
		return dup
	}

	if err := fn(ctx); err != nil {
		return errors.Join(err, s.MarkFailed(ctx, key, o.stateTTL))
	}
	return s.MarkCompleted(ctx, key, o.stateTTL)
}
