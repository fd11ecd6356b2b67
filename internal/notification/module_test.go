package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrDefaultInt(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 10},
		{in: -3, want: 10},
		{in: 8, want: 8},
		{in: 10, want: 10},
		{in: 12, want: 12},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, orDefaultInt(tt.in, 10), "in %d", tt.in)
	}
}

func TestModule_CloseDrainsAfterParentCancel(t *testing.T) {
	// Arrange
	parent, cancel := context.WithCancel(context.Background())
	mod := newModule(parent, 1, 4)

	started := make(chan struct{})
	release := make(chan struct{})
	seen := make(chan error, 1)
	taskCtx := make(chan context.Context, 1)
	require.NoError(t, mod.pool.Submit(func(ctx context.Context) error {
		close(started)
		<-release
		seen <- ctx.Err()
		taskCtx <- ctx
		return nil
	}))
	<-started

	// Act
	cancel()
	close(release)
	err := mod.Close(context.Background())

	// Assert
	require.NoError(t, err)
	assert.NoError(t, <-seen, "a running delivery keeps its context while the app shuts down")
	assert.ErrorIs(t, (<-taskCtx).Err(), context.Canceled, "the context ends once the pool drained")
}

func TestModule_DisabledIsNoop(t *testing.T) {
	var mod Module

	assert.Equal(t, QueueStats{}, mod.Stats())
	assert.NoError(t, mod.Close(context.Background()))
}
