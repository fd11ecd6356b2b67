package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_CollectsErrors(t *testing.T) {
	m := NewManager(2)
	boom := errors.New("boom")

	assert.True(t, m.Go(context.Background(), "sweep", func(context.Context) error { return boom }))
	assert.True(t, m.Go(context.Background(), "consumer", func(context.Context) error { return context.Canceled }))

	err := m.Wait()
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "sweep: boom")
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestManager_AtCapacity(t *testing.T) {
	m := NewManager(1)
	release := make(chan struct{})

	assert.True(t, m.Go(context.Background(), "first", func(context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, m.Go(context.Background(), "second", func(context.Context) error { return nil }))

	close(release)
	assert.NoError(t, m.Wait())
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	assert.True(t, m.Go(context.Background(), "consumer", func(context.Context) error { panic("bad message") }))
	assert.NoError(t, m.Wait())
}

func TestManager_SkipsDoneContext(t *testing.T) {
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	assert.True(t, m.Go(ctx, "sweep", func(context.Context) error {
		ran = true
		return nil
	}))
	assert.NoError(t, m.Wait())
	assert.False(t, ran)
}

func TestManager_ClosedRejects(t *testing.T) {
	m := NewManager(1)
	assert.NoError(t, m.Wait())

	assert.False(t, m.Go(context.Background(), "late", func(context.Context) error { return nil }))
}

func TestManager_Nil(t *testing.T) {
	var m *Manager
	assert.False(t, m.Go(context.Background(), "nil", func(context.Context) error { return nil }))
	assert.NoError(t, m.Wait())
}
