package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"assistec/internal/adapter/persistence/memory"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase/interfaces"
	mock_interfaces "assistec/internal/usecase/interfaces/mocks"
)

func TestApprovalUseCase_ApproveTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.order(t, f.client(t, "Maria", "").ID)
	token := f.quote(t, order.ID, 150, 50)

	first, err := f.approvalUC.Approve(ctx, token)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := f.approvalUC.Approve(ctx, token)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.True(t, second.Snapshot.AlreadyApproved)
	assert.False(t, second.Snapshot.AwaitingDecision)
	assert.Empty(t, second.Notice)

	entries, err := f.history.ListApprovalHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Len(t, f.messenger.Sent(), 1, "staff is alerted once")
}

func TestApprovalUseCase_ConcurrentApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.order(t, f.client(t, "Maria", "").ID)
	token := f.quote(t, order.ID, 100, 0)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		errs    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.approvalUC.Approve(ctx, token)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Applied {
				applied++
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	assert.Equal(t, 1, applied)

	entries, err := f.history.ListApprovalHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	history, err := f.history.ListStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestApprovalUseCase_Reject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.order(t, f.client(t, "Maria", "").ID)
	token := f.quote(t, order.ID, 80, 20)

	res, err := f.approvalUC.Reject(ctx, token)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, entities.OrderStatusAnalyzing, res.Snapshot.Order.Status)
	assert.False(t, res.Snapshot.Order.BudgetApproved)
	assert.False(t, res.Snapshot.AwaitingDecision)

	again, err := f.approvalUC.Reject(ctx, token)
	require.NoError(t, err)
	assert.False(t, again.Applied)

	entries, err := f.history.ListApprovalHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	history, err := f.history.ListStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entities.OrderStatusAnalyzing, history[2].Status)

	_, err = f.approvalUC.Approve(ctx, token)
	assert.ErrorIs(t, err, ErrNotAwaitingDecision)
	assert.Empty(t, f.messenger.Sent())
}

func TestApprovalUseCase_RejectAfterApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.order(t, f.client(t, "Maria", "").ID)
	token := f.quote(t, order.ID, 80, 20)

	_, err := f.approvalUC.Approve(ctx, token)
	require.NoError(t, err)

	_, err = f.approvalUC.Reject(ctx, token)
	assert.ErrorIs(t, err, ErrBudgetAlreadyApproved)

	got, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.OrderStatusInRepair, got.Status)
	assert.True(t, got.BudgetApproved)
}

func TestApprovalUseCase_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.approvalUC.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrApprovalNotFound)
	_, err = f.approvalUC.Resolve(ctx, "unknown")
	assert.ErrorIs(t, err, ErrApprovalNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	order := f.order(t, f.client(t, "", "11 90000-0000").ID)
	token := f.quote(t, order.ID, 10.5, 0.25)

	snap, err := f.approvalUC.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultClientName, snap.ClientName)
	assert.Equal(t, 10.75, snap.Budget.Total)
	assert.Equal(t, order.ID, snap.Order.ID)
}

func TestApprovalUseCase_ConsolidatedTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.order(t, f.client(t, "Maria", "").ID)

	total, err := f.approvalUC.ConsolidatedTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = f.approvalUC.Approve(ctx, f.quote(t, order.ID, 100, 0))
	require.NoError(t, err)
	_, err = f.approvalUC.Approve(ctx, f.quote(t, order.ID, 30, 20))
	require.NoError(t, err)

	summary, err := f.approvalUC.ListApprovals(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, summary.Entries, 2)
	assert.Equal(t, 150.0, summary.ConsolidatedTotal)

	require.NoError(t, f.approvalUC.DeleteApprovalEntry(ctx, order.ID, summary.Entries[1].ID))

	total, err = f.approvalUC.ConsolidatedTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)

	err = f.approvalUC.DeleteApprovalEntry(ctx, order.ID, summary.Entries[1].ID)
	assert.ErrorIs(t, err, ErrApprovalEntryNotFound)

	_, err = f.approvalUC.ConsolidatedTotal(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestApprovalUseCase_ConsolidatedTotal_LegacyEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
	history := mock_interfaces.NewMockIOrderHistoryRepository(ctrl)
	uc := NewApprovalUseCase(ApprovalDeps{Orders: orders, History: history, Machine: testMachine()})

	orders.EXPECT().GetByID(gomock.Any(), "os-1").Return(entities.ServiceOrder{ID: "os-1"}, nil)
	history.EXPECT().ListApprovalHistory(gomock.Any(), "os-1").Return([]entities.ApprovalHistoryEntry{
		{ID: "a", TotalCost: entities.Float(100)},
		{ID: "b", TotalFinalCost: entities.Float(49.9), TotalCost: entities.Float(60)},
	}, nil)

	total, err := uc.ConsolidatedTotal(context.Background(), "os-1")
	require.NoError(t, err)
	assert.Equal(t, 149.9, total)
}

func TestApprovalUseCase_Approve_LostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
	uc := NewApprovalUseCase(ApprovalDeps{Orders: orders, Machine: testMachine()})

	pending := entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusAwaitingApproval, ApprovalToken: "tok", LaborCost: entities.Float(10)}
	approved := pending
	approved.Status = entities.OrderStatusInRepair
	approved.BudgetApproved = true

	gomock.InOrder(
		orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(pending, nil),
		orders.EXPECT().SaveApproval(gomock.Any(), "tok", gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.ServiceOrder{}, false, nil),
		orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(approved, nil),
	)

	res, err := uc.Approve(context.Background(), "tok")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.True(t, res.Snapshot.AlreadyApproved)
}

func TestApprovalUseCase_Approve_TokenReplacedDuringRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
	uc := NewApprovalUseCase(ApprovalDeps{Orders: orders, Machine: testMachine()})

	pending := entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusAwaitingApproval, ApprovalToken: "tok"}
	orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(pending, nil)
	orders.EXPECT().SaveApproval(gomock.Any(), "tok", gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.ServiceOrder{}, false, nil)
	orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(entities.ServiceOrder{}, nil)

	_, err := uc.Approve(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrApprovalNotFound)
}

func TestApprovalUseCase_Approve_PersistenceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
	outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
	uc := NewApprovalUseCase(ApprovalDeps{
		Orders:     orders,
		Dispatcher: NewNotificationDispatcher(outbox, nil, nil, nil, DispatcherConfig{}),
		Machine:    testMachine(),
	})

	pending := entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusAwaitingApproval, ApprovalToken: "tok"}
	orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(pending, nil)
	orders.EXPECT().SaveApproval(gomock.Any(), "tok", gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.ServiceOrder{}, false, errors.New("transaction canceled"))

	_, err := uc.Approve(context.Background(), "tok")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "approve", perr.Op)
	assert.Equal(t, entities.OrderStatusInRepair, perr.Status)
}

// discountDuringApproval applies a discount right before the approval write,
// the way an admin editing the order in parallel would.
type discountDuringApproval struct {
	*memory.ServiceOrderRepository
	once     sync.Once
	discount func()
}

func (r *discountDuringApproval) SaveApproval(ctx context.Context, token string, patch entities.OrderPatch, approval entities.ApprovalHistoryEntry, entry entities.StatusHistoryEntry) (entities.ServiceOrder, bool, error) {
	r.once.Do(r.discount)
	return r.ServiceOrderRepository.SaveApproval(ctx, token, patch, approval, entry)
}

func TestApprovalUseCase_Approve_DiscountLandsBeforeWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.order(t, f.client(t, "Maria", "").ID)
	token := f.quote(t, order.ID, 150, 50)

	racing := &discountDuringApproval{
		ServiceOrderRepository: f.orders,
		discount: func() {
			_, err := f.orderUC.ApplyDiscount(ctx, order.ID, 20, entities.String("cliente antigo"))
			require.NoError(t, err)
		},
	}
	uc := NewApprovalUseCase(ApprovalDeps{
		Orders:     racing,
		History:    f.history,
		Profiles:   f.profiles,
		Settings:   f.settings,
		Dispatcher: f.dispatcher,
		Machine:    f.machine,
	})

	res, err := uc.Approve(ctx, token)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 180.0, res.Snapshot.Budget.Total)

	stored, err := f.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, stored.BudgetApproved)
	require.NotNil(t, stored.TotalCost)
	assert.Equal(t, 180.0, *stored.TotalCost)
	assert.Equal(t, stored.Budget().Total, *stored.TotalCost)

	entries, err := f.history.ListApprovalHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 20.0, entries[0].DiscountAmount)
	assert.Equal(t, 180.0, entries[0].FinalTotal())
	assert.Equal(t, "cliente antigo", *entries[0].DiscountReason)
}

func TestApprovalUseCase_Approve_CostsKeepChanging(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
	uc := NewApprovalUseCase(ApprovalDeps{Orders: orders, Machine: testMachine()})

	pending := entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusAwaitingApproval, ApprovalToken: "tok", LaborCost: entities.Float(10)}
	orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(pending, nil).Times(maxPlanAttempts)
	orders.EXPECT().SaveApproval(gomock.Any(), "tok", gomock.Any(), gomock.Any(), gomock.Any()).
		Return(entities.ServiceOrder{}, false, interfaces.ErrCostsChanged).Times(maxPlanAttempts)

	_, err := uc.Approve(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	var perr *PersistenceError
	assert.False(t, errors.As(err, &perr), "nothing was written, so there is nothing to reconcile")
}

func TestApprovalUseCase_Approve_PatchLeavesTotalAlone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mock_interfaces.NewMockIServiceOrderRepository(ctrl)
	uc := NewApprovalUseCase(ApprovalDeps{Orders: orders, Machine: testMachine()})

	pending := entities.ServiceOrder{
		ID: "os-1", Status: entities.OrderStatusAwaitingApproval, ApprovalToken: "tok",
		LaborCost: entities.Float(150), PartsCost: entities.Float(50), TotalCost: entities.Float(200),
	}
	orders.EXPECT().GetByApprovalToken(gomock.Any(), "tok").Return(pending, nil)
	orders.EXPECT().SaveApproval(gomock.Any(), "tok", gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, patch entities.OrderPatch, _ entities.ApprovalHistoryEntry, _ entities.StatusHistoryEntry) (entities.ServiceOrder, bool, error) {
			assert.Nil(t, patch.TotalCost)
			require.NotNil(t, patch.Guard)
			assert.Equal(t, 150.0, *patch.Guard.LaborCost)
			assert.Equal(t, 50.0, *patch.Guard.PartsCost)
			assert.Nil(t, patch.Guard.DiscountAmount)
			return patch.Apply(pending), true, nil
		})

	res, err := uc.Approve(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, res.Applied)
}
