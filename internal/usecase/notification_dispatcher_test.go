package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"assistec/internal/adapter/persistence/memory"
	"assistec/internal/domain/entities"
	"assistec/internal/pkg/worker"
	mock_interfaces "assistec/internal/usecase/interfaces/mocks"
)

type stubRunner struct {
	err   error
	tasks []worker.Task
}

func (r *stubRunner) SubmitDetached(task worker.Task) error {
	if r.err != nil {
		return r.err
	}
	r.tasks = append(r.tasks, task)
	return nil
}

type dispatcherEnv struct {
	outbox    *memory.OutboxRepository
	messages  *memory.OrderMessageRepository
	messenger *fakeMessenger
}

func newDispatcherEnv() dispatcherEnv {
	store := memory.NewStore()
	return dispatcherEnv{
		outbox:    memory.NewOutboxRepository(store),
		messages:  memory.NewOrderMessageRepository(store),
		messenger: &fakeMessenger{},
	}
}

func (e dispatcherEnv) dispatcher(runner TaskRunner, cfg DispatcherConfig) *NotificationDispatcher {
	return NewNotificationDispatcher(e.outbox, e.messages, e.messenger, runner, cfg)
}

func (e dispatcherEnv) only(t *testing.T) entities.OutboxMessage {
	t.Helper()
	all, err := e.outbox.ListPending(context.Background(), 0, 1000)
	require.NoError(t, err)
	require.Len(t, all, 1)
	return all[0]
}

func TestNotificationDispatcher_ChatDelivery(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv()
	d := env.dispatcher(nil, DispatcherConfig{})

	err := d.Enqueue(ctx, Notification{OrderID: "os-1", Template: entities.TemplateCompleted, Channel: entities.OutboxChannelChat, Body: "Concluída"})
	require.NoError(t, err)

	msgs, err := env.messages.ListByOrderID(ctx, "os-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, entities.SenderRoleSystem, msgs[0].SenderRole)
	assert.Equal(t, "Concluída", msgs[0].Body)

	stored, ok := env.outbox.Get(msgs[0].ID)
	require.True(t, ok, "chat message id is the outbox id")
	assert.Equal(t, entities.OutboxStatusSent, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
}

func TestNotificationDispatcher_RedeliveryDoesNotDuplicateChat(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv()
	d := env.dispatcher(nil, DispatcherConfig{})

	require.NoError(t, d.Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelChat, Body: "oi"}))
	msgs, err := env.messages.ListByOrderID(ctx, "os-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	stored, _ := env.outbox.Get(msgs[0].ID)
	require.NoError(t, d.deliver(ctx, stored))

	msgs, err = env.messages.ListByOrderID(ctx, "os-1")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestNotificationDispatcher_FailedSendIsRetried(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv()
	env.messenger.err = errors.New("provider unavailable")
	d := env.dispatcher(nil, DispatcherConfig{MaxAttempts: 3})

	err := d.Enqueue(ctx, Notification{OrderID: "os-1", Template: entities.TemplateStaffApproval, Channel: entities.OutboxChannelWhatsApp, Recipient: "+5511912345678", Body: "Orçamento aprovado"})
	require.NoError(t, err, "delivery failures never reach the caller")

	failed := env.only(t)
	assert.Equal(t, entities.OutboxStatusFailed, failed.Status)
	assert.Equal(t, 1, failed.Attempts)
	assert.Equal(t, "provider unavailable", failed.LastError)

	env.messenger.mu.Lock()
	env.messenger.err = nil
	env.messenger.mu.Unlock()

	n, err := d.DrainPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+5511912345678", sent[0].To)

	stored, ok := env.outbox.Get(failed.ID)
	require.True(t, ok)
	assert.Equal(t, entities.OutboxStatusSent, stored.Status)
	assert.Empty(t, stored.LastError)

	n, err = d.DrainPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotificationDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv()
	env.messenger.err = errors.New("provider unavailable")
	d := env.dispatcher(nil, DispatcherConfig{MaxAttempts: 2})

	require.NoError(t, d.Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelWhatsApp, Recipient: "1", Body: "x"}))
	id := env.only(t).ID

	n, err := d.DrainPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, _ := env.outbox.Get(id)
	assert.Equal(t, 2, stored.Attempts)

	pending, err := env.outbox.ListPending(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestNotificationDispatcher_RetryAfterSkipsRecentMessages(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv()
	env.messenger.err = errors.New("down")
	d := env.dispatcher(nil, DispatcherConfig{RetryAfter: time.Hour})

	require.NoError(t, d.Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelWhatsApp, Recipient: "1", Body: "x"}))

	n, err := d.DrainPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, env.only(t).Attempts)
}

func TestNotificationDispatcher_Runner(t *testing.T) {
	ctx := context.Background()

	t.Run("delivery runs on the runner", func(t *testing.T) {
		env := newDispatcherEnv()
		runner := &stubRunner{}
		d := env.dispatcher(runner, DispatcherConfig{})

		require.NoError(t, d.Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelWhatsApp, Recipient: "1", Body: "x"}))
		assert.Equal(t, entities.OutboxStatusPending, env.only(t).Status)
		require.Len(t, runner.tasks, 1)

		runner.tasks[0](ctx)
		assert.Len(t, env.messenger.Sent(), 1)
	})

	t.Run("closed pool leaves the message pending", func(t *testing.T) {
		env := newDispatcherEnv()
		d := env.dispatcher(&stubRunner{err: worker.ErrPoolClosed}, DispatcherConfig{})

		require.NoError(t, d.Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelWhatsApp, Recipient: "1", Body: "x"}))
		msg := env.only(t)
		assert.Equal(t, entities.OutboxStatusPending, msg.Status)
		assert.Zero(t, msg.Attempts)
		assert.Empty(t, env.messenger.Sent())

		n, err := d.DrainPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestNotificationDispatcher_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty body", func(t *testing.T) {
		env := newDispatcherEnv()
		err := env.dispatcher(nil, DispatcherConfig{}).Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelChat, Body: " "})
		var derr *NotificationDispatchError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "os-1", derr.OrderID)
	})

	t.Run("no messenger", func(t *testing.T) {
		env := newDispatcherEnv()
		d := NewNotificationDispatcher(env.outbox, env.messages, nil, nil, DispatcherConfig{})
		require.NoError(t, d.Enqueue(ctx, Notification{OrderID: "os-1", Channel: entities.OutboxChannelWhatsApp, Recipient: "1", Body: "x"}))
		msg := env.only(t)
		assert.Equal(t, entities.OutboxStatusFailed, msg.Status)
		assert.Equal(t, errMessengerNotConfigured.Error(), msg.LastError)
	})
}

func TestNotificationDispatcher_DeliveryErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
	messages := mock_interfaces.NewMockIOrderMessageRepository(ctrl)
	messenger := mock_interfaces.NewMockIMessenger(ctrl)
	d := NewNotificationDispatcher(outbox, messages, messenger, nil, DispatcherConfig{MaxAttempts: 3})

	queued := testStart.Add(-time.Hour)
	chat := entities.OutboxMessage{ID: "ob-1", OrderID: "os-1", Channel: entities.OutboxChannelChat, Body: "Orçamento pronto", UpdatedAt: queued}
	staff := entities.OutboxMessage{ID: "ob-2", OrderID: "os-1", Channel: entities.OutboxChannelWhatsApp, Recipient: "+5511912345678", Body: "Aprovado", Attempts: 1, UpdatedAt: queued}
	receipt := entities.OutboxMessage{ID: "ob-3", OrderID: "os-2", Channel: entities.OutboxChannelWhatsApp, Recipient: "+5511912345678", Body: "Pronto", UpdatedAt: queued}

	outbox.EXPECT().ListPending(gomock.Any(), gomock.Any(), 3).Return([]entities.OutboxMessage{chat, staff, receipt}, nil)

	messages.EXPECT().Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg entities.OrderMessage) (entities.OrderMessage, error) {
			assert.Equal(t, "ob-1", msg.ID, "the outbox id keeps chat delivery idempotent")
			assert.Equal(t, entities.SenderRoleSystem, msg.SenderRole)
			return entities.OrderMessage{}, errors.New("table throttled")
		})
	outbox.EXPECT().MarkFailed(gomock.Any(), "ob-1", "table throttled").Return(nil)

	messenger.EXPECT().SendWhatsApp(gomock.Any(), staff.Recipient, "Aprovado").Return("", errors.New("twilio 429"))
	outbox.EXPECT().MarkFailed(gomock.Any(), "ob-2", "twilio 429").Return(errors.New("outbox down"))

	messenger.EXPECT().SendWhatsApp(gomock.Any(), receipt.Recipient, "Pronto").Return("SM1", nil)
	outbox.EXPECT().MarkSent(gomock.Any(), "ob-3").Return(errors.New("outbox down"))

	delivered, err := d.DrainPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
}
