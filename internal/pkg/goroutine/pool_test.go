package goroutine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsTasks(t *testing.T) {
	p := NewPool(context.Background(), 2, 10)
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	var mu sync.Mutex
	seen := 0
	for range 5 {
		require.NoError(t, p.Submit(func(context.Context) error {
			mu.Lock()
			seen++
			mu.Unlock()
			return nil
		}))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen == 5
	}, time.Second, 5*time.Millisecond)
}

func TestPool_SubmitFull(t *testing.T) {
	p := NewPool(context.Background(), 1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	t.Cleanup(func() {
		close(release)
		_ = p.Close(context.Background())
	})

	// occupy the worker
	require.NoError(t, p.Submit(func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	// fill the single queue slot
	require.NoError(t, p.Submit(func(context.Context) error { return nil }))

	err := p.Submit(func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolFull)

	queued, running := p.Stats()
	assert.Equal(t, int64(1), queued)
	assert.Equal(t, int64(1), running)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool(context.Background(), 1, 1)
	require.NoError(t, p.Close(context.Background()))

	assert.ErrorIs(t, p.Submit(func(context.Context) error { return nil }), ErrPoolClosed)
}

func TestPool_RecoversPanicAndCountsFailures(t *testing.T) {
	p := NewPool(context.Background(), 1, 4)
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	require.NoError(t, p.Submit(func(context.Context) error { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) error { return errors.New("bad") }))

	assert.Eventually(t, func() bool { return p.Failed() == 2 }, time.Second, 5*time.Millisecond)
}
