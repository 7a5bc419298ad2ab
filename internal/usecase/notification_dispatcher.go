package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/pkg/logger"
	"assistec/internal/pkg/worker"
	"assistec/internal/usecase/interfaces"
)

var errMessengerNotConfigured = errors.New("messenger not configured")

// TaskRunner runs work after the request returns. *worker.Pool implements it.
type TaskRunner interface {
	SubmitDetached(task worker.Task) error
}

// INotificationDispatcher persists secondary effects and delivers them.
type INotificationDispatcher interface {
	Enqueue(ctx context.Context, n Notification) error
	DrainPending(ctx context.Context) (delivered int, err error)
}

// Notification is one message to deliver after a primary write committed.
type Notification struct {
	OrderID   string
	Template  entities.TemplateKey
	Channel   entities.OutboxChannel
	Recipient string
	Body      string
}

type DispatcherConfig struct {
	BatchSize   int
	MaxAttempts int
	// RetryAfter keeps the drain away from messages touched recently, which
	// are most likely still being delivered by the pool.
	RetryAfter time.Duration
}

type NotificationDispatcher struct {
	outbox    interfaces.IOutboxRepository
	messages  interfaces.IOrderMessageRepository
	messenger interfaces.IMessenger
	runner    TaskRunner
	cfg       DispatcherConfig
	now       func() time.Time

	inflight sync.Map
}

var _ INotificationDispatcher = (*NotificationDispatcher)(nil)

// NewNotificationDispatcher wires the outbox. With a nil runner delivery
// happens inline, which is what tests use.
func NewNotificationDispatcher(
	outbox interfaces.IOutboxRepository,
	messages interfaces.IOrderMessageRepository,
	messenger interfaces.IMessenger,
	runner TaskRunner,
	cfg DispatcherConfig,
) *NotificationDispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &NotificationDispatcher{
		outbox:    outbox,
		messages:  messages,
		messenger: messenger,
		runner:    runner,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue stores n in the outbox and schedules its delivery. The returned
// error is always a *NotificationDispatchError.
func (d *NotificationDispatcher) Enqueue(ctx context.Context, n Notification) error {
	if strings.TrimSpace(n.Body) == "" {
		return &NotificationDispatchError{OrderID: n.OrderID, Template: n.Template, Channel: n.Channel, Err: errors.New("empty body")}
	}
	now := d.now()
	msg := entities.OutboxMessage{
		ID:        newOutboxID(),
		OrderID:   n.OrderID,
		Channel:   n.Channel,
		Recipient: n.Recipient,
		Body:      n.Body,
		Status:    entities.OutboxStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := d.outbox.Enqueue(ctx, msg)
	if err != nil {
		logger.Warn("outbox enqueue failed",
			zap.String("order_id", n.OrderID),
			zap.String("template", string(n.Template)),
			zap.String("channel", string(n.Channel)),
			zap.Error(err),
		)
		return &NotificationDispatchError{OrderID: n.OrderID, Template: n.Template, Channel: n.Channel, Err: err}
	}
	logger.Debug("outbox message enqueued", zap.String("outbox_id", stored.ID), zap.String("order_id", n.OrderID))

	if d.runner == nil {
		_ = d.deliver(ctx, stored)
		return nil
	}
	if err := d.runner.SubmitDetached(func(taskCtx context.Context) {
		_ = d.deliver(taskCtx, stored)
	}); err != nil {
		// Left pending; the scheduled drain picks it up.
		logger.Warn("outbox delivery not scheduled", zap.String("outbox_id", stored.ID), zap.Error(err))
	}
	return nil
}

// DrainPending retries pending and failed messages under the attempt limit.
func (d *NotificationDispatcher) DrainPending(ctx context.Context) (int, error) {
	pending, err := d.outbox.ListPending(ctx, d.cfg.BatchSize, d.cfg.MaxAttempts)
	if err != nil {
		logger.Error("outbox list pending failed", zap.Error(err))
		return 0, err
	}
	cutoff := d.now().Add(-d.cfg.RetryAfter)
	delivered := 0
	for _, msg := range pending {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if msg.UpdatedAt.After(cutoff) {
			continue
		}
		if err := d.deliver(ctx, msg); err == nil {
			delivered++
		}
	}
	if len(pending) > 0 {
		logger.Info("outbox drained", zap.Int("pending", len(pending)), zap.Int("delivered", delivered))
	}
	return delivered, nil
}

func (d *NotificationDispatcher) deliver(ctx context.Context, msg entities.OutboxMessage) error {
	if _, busy := d.inflight.LoadOrStore(msg.ID, struct{}{}); busy {
		return nil
	}
	defer d.inflight.Delete(msg.ID)

	var err error
	switch msg.Channel {
	case entities.OutboxChannelChat:
		_, err = d.messages.Append(ctx, entities.OrderMessage{
			ID:         msg.ID,
			OrderID:    msg.OrderID,
			SenderRole: entities.SenderRoleSystem,
			Body:       msg.Body,
			CreatedAt:  msg.CreatedAt,
		})
	case entities.OutboxChannelWhatsApp:
		if d.messenger == nil {
			err = errMessengerNotConfigured
			break
		}
		var sid string
		sid, err = d.messenger.SendWhatsApp(ctx, msg.Recipient, msg.Body)
		if err == nil {
			logger.Debug("whatsapp sent", zap.String("outbox_id", msg.ID), zap.String("sid", sid))
		}
	default:
		err = errors.New("unknown outbox channel " + string(msg.Channel))
	}

	if err != nil {
		logger.Warn("outbox delivery failed",
			zap.String("outbox_id", msg.ID),
			zap.String("order_id", msg.OrderID),
			zap.String("channel", string(msg.Channel)),
			zap.Int("attempt", msg.Attempts+1),
			zap.Error(err),
		)
		if markErr := d.outbox.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
			logger.Error("outbox mark failed", zap.String("outbox_id", msg.ID), zap.Error(markErr))
		}
		return err
	}
	if err := d.outbox.MarkSent(ctx, msg.ID); err != nil {
		logger.Error("outbox mark sent failed", zap.String("outbox_id", msg.ID), zap.Error(err))
		return err
	}
	return nil
}

func newOutboxID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
