// Package worker runs secondary effects on a bounded goroutine pool.
//
// Naked goroutines are not used for side effects: everything that outlives a
// request goes through Pool.Submit so panics are recovered and logged.
package worker

import (
	"context"
	"errors"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"assistec/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware unit of work.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string

	// serviceCtx outlives requests; detached tasks run under it.
	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// NewPool creates a pool of the given size bound to the service lifecycle ctx.
func NewPool(ctx context.Context, name string, size int) (*Pool, error) {
	if size <= 0 {
		size = 10
	}
	serviceCtx, serviceCancel := context.WithCancel(ctx)

	p, err := ants.NewPool(size,
		ants.WithPanicHandler(func(v interface{}) {
			logger.Error("worker panic recovered",
				zap.String("pool", name),
				zap.Any("panic", v),
				zap.Stack("stack"),
			)
		}),
		ants.WithNonblocking(false),
	)
	if err != nil {
		serviceCancel()
		return nil, err
	}

	return &Pool{pool: p, name: name, serviceCtx: serviceCtx, serviceCancel: serviceCancel}, nil
}

// Submit runs task with the caller's context. If ctx is already done the task
// is not submitted.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := p.pool.Submit(func() {
		select {
		case <-ctx.Done():
			logger.Debug("task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// SubmitDetached runs task under the service context instead of the request
// context, so it keeps running after the HTTP response is written.
func (p *Pool) SubmitDetached(task Task) error {
	return p.Submit(p.serviceCtx, task)
}

// Running reports the number of busy workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Shutdown cancels detached tasks and releases the pool.
func (p *Pool) Shutdown() {
	p.serviceCancel()
	p.pool.Release()
}
