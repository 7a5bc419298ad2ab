package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"assistec/internal/adapter/persistence/memory"
	"assistec/internal/domain/entities"
	"assistec/internal/domain/lifecycle"
)

const testOrigin = "https://loja.test"

var testStart = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

var testBusiness = entities.NotificationSettings{
	BusinessName:    "Assistec",
	BusinessAddress: "Rua das Flores, 10",
	BusinessHours:   "9h às 18h",
	StaffWhatsApp:   "+55 11 91234-5678",
}

// testMachine ticks one second per clock read so history is strictly ordered.
func testMachine() *lifecycle.Machine {
	var tick, tokens, ids atomic.Int64
	return lifecycle.New(
		lifecycle.WithClock(func() time.Time { return testStart.Add(time.Duration(tick.Add(1)) * time.Second) }),
		lifecycle.WithTokenSource(func() string { return fmt.Sprintf("token-%d", tokens.Add(1)) }),
		lifecycle.WithIDSource(func() string { return fmt.Sprintf("id-%04d", ids.Add(1)) }),
	)
}

type sentWhatsApp struct {
	To   string
	Body string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentWhatsApp
	err  error
}

func (m *fakeMessenger) SendWhatsApp(_ context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, sentWhatsApp{To: to, Body: body})
	return fmt.Sprintf("SM%d", len(m.sent)), nil
}

func (m *fakeMessenger) Sent() []sentWhatsApp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentWhatsApp(nil), m.sent...)
}

type fixture struct {
	orders     *memory.ServiceOrderRepository
	history    *memory.OrderHistoryRepository
	items      *memory.OrderItemRepository
	messages   *memory.OrderMessageRepository
	outbox     *memory.OutboxRepository
	profiles   *memory.ProfileRepository
	payments   *memory.BillingPaymentRepository
	settings   *SettingsUseCase
	messenger  *fakeMessenger
	dispatcher *NotificationDispatcher
	machine    *lifecycle.Machine
	orderUC    *OrderUseCase
	approvalUC *ApprovalUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		orders:    memory.NewServiceOrderRepository(store),
		history:   memory.NewOrderHistoryRepository(store),
		items:     memory.NewOrderItemRepository(store),
		messages:  memory.NewOrderMessageRepository(store),
		outbox:    memory.NewOutboxRepository(store),
		profiles:  memory.NewProfileRepository(store),
		payments:  memory.NewBillingPaymentRepository(store),
		messenger: &fakeMessenger{},
		machine:   testMachine(),
	}
	f.settings = NewSettingsUseCase(memory.NewSettingsRepository(store), testBusiness)
	f.dispatcher = NewNotificationDispatcher(f.outbox, f.messages, f.messenger, nil, DispatcherConfig{MaxAttempts: 3})
	f.orderUC = NewOrderUseCase(OrderDeps{
		Orders:       f.orders,
		History:      f.history,
		Items:        f.items,
		Messages:     f.messages,
		Profiles:     f.profiles,
		Settings:     f.settings,
		Dispatcher:   f.dispatcher,
		Machine:      f.machine,
		PublicOrigin: testOrigin,
	})
	f.approvalUC = NewApprovalUseCase(ApprovalDeps{
		Orders:       f.orders,
		History:      f.history,
		Profiles:     f.profiles,
		Settings:     f.settings,
		Dispatcher:   f.dispatcher,
		Machine:      f.machine,
		PublicOrigin: testOrigin,
	})
	return f
}

func (f *fixture) client(t *testing.T, name, phone string) entities.Profile {
	t.Helper()
	p, err := NewProfileUseCase(f.profiles).CreateProfile(context.Background(), CreateProfileInput{Name: name, Phone: phone})
	require.NoError(t, err)
	return p
}

func (f *fixture) order(t *testing.T, clientID string) entities.ServiceOrder {
	t.Helper()
	o, err := f.orderUC.CreateOrder(context.Background(), CreateOrderInput{ClientID: clientID, Equipment: "Notebook", Brand: "Dell", Model: "Inspiron 15"})
	require.NoError(t, err)
	return o
}

// quote moves the order to awaiting_approval and returns the issued token.
func (f *fixture) quote(t *testing.T, orderID string, labor, parts float64) string {
	t.Helper()
	res, err := f.orderUC.Transition(context.Background(), orderID, TransitionInput{
		Status:    entities.OrderStatusAwaitingApproval,
		LaborCost: entities.Float(labor),
		PartsCost: entities.Float(parts),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Order.ApprovalToken)
	return res.Order.ApprovalToken
}
