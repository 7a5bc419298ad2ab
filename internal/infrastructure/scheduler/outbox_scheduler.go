// Package scheduler runs periodic jobs on robfig/cron.
package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"assistec/internal/pkg/logger"
)

// Drainer is implemented by usecase.NotificationDispatcher.
type Drainer interface {
	DrainPending(ctx context.Context) (int, error)
}

// OutboxScheduler retries undelivered notifications on a cron schedule.
// A tick that fires while the previous drain still runs is skipped.
type OutboxScheduler struct {
	cron    *cron.Cron
	drainer Drainer
	ctx     context.Context
	running atomic.Bool
}

// NewOutboxScheduler registers the drain job. schedule accepts the standard
// five-field cron expression or descriptors such as "@every 30s".
func NewOutboxScheduler(ctx context.Context, schedule string, drainer Drainer) (*OutboxScheduler, error) {
	s := &OutboxScheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger{}))),
		drainer: drainer,
		ctx:     ctx,
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *OutboxScheduler) Start() {
	s.cron.Start()
	logger.Info("outbox scheduler started")
}

// Stop waits for a running drain to finish.
func (s *OutboxScheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("outbox scheduler stopped")
}

func (s *OutboxScheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		logger.Debug("outbox drain still running, tick skipped")
		return
	}
	defer s.running.Store(false)

	if s.ctx.Err() != nil {
		return
	}
	n, err := s.drainer.DrainPending(s.ctx)
	if err != nil {
		logger.Warn("outbox drain failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("outbox drained", zap.Int("delivered", n))
	}
}

// cronLogger adapts the global zap logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.L().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.L().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
