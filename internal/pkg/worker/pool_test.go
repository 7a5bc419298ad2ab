package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitRunsTask(t *testing.T) {
	p, err := NewPool(context.Background(), "test", 2)
	require.NoError(t, err)
	defer p.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)
	ran := false
	require.NoError(t, p.SubmitDetached(func(ctx context.Context) {
		defer wg.Done()
		ran = true
	}))
	wg.Wait()
	assert.True(t, ran)
}

func TestPool_SubmitCancelledContext(t *testing.T) {
	p, err := NewPool(context.Background(), "test", 1)
	require.NoError(t, err)
	defer p.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = p.Submit(ctx, func(context.Context) { t.Error("task must not run") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPool_RecoversPanics(t *testing.T) {
	p, err := NewPool(context.Background(), "test", 1)
	require.NoError(t, err)
	defer p.Shutdown()

	require.NoError(t, p.SubmitDetached(func(context.Context) { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, p.SubmitDetached(func(context.Context) { close(done) }))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool stopped working after panic")
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p, err := NewPool(context.Background(), "test", 1)
	require.NoError(t, err)
	p.Shutdown()

	err = p.Submit(context.Background(), func(context.Context) {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}
