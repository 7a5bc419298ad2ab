package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"assistec/internal/adapter/http/handlers/mocks"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase"
)

func approvalRouter(h *ApprovalHandler) *gin.Engine {
	r := gin.New()
	r.GET("/v1/approvals/:token", h.GetApproval)
	r.POST("/v1/approvals/:token/approve", h.Approve)
	r.POST("/v1/approvals/:token/reject", h.Reject)
	r.GET("/v1/admin/orders/:id/approvals", h.ListApprovals)
	r.DELETE("/v1/admin/orders/:id/approvals/:entry_id", h.DeleteApprovalEntry)
	return r
}

func awaitingSnapshot() usecase.ApprovalSnapshot {
	order := entities.ServiceOrder{
		ID:            "os-1",
		OrderNumber:   42,
		Equipment:     "Notebook",
		Status:        entities.OrderStatusAwaitingApproval,
		LaborCost:     entities.Float(100),
		PartsCost:     entities.Float(50),
		ApprovalToken: "tok-1",
	}
	return usecase.ApprovalSnapshot{Order: order, ClientName: "Ana", Budget: order.Budget(), AwaitingDecision: true}
}

func TestApprovalHandler_GetApproval(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unknown token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		uc.EXPECT().Resolve(gomock.Any(), "nope").Return(usecase.ApprovalSnapshot{}, usecase.ErrApprovalNotFound)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodGet, "/v1/approvals/nope", "")
		if w.Code != http.StatusNotFound || errorCode(t, w) != "APPROVAL_NOT_FOUND" {
			t.Fatalf("expected 404 APPROVAL_NOT_FOUND, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("page never leaks the token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		uc.EXPECT().Resolve(gomock.Any(), "tok-1").Return(awaitingSnapshot(), nil)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodGet, "/v1/approvals/tok-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := body["approval_token"]; ok {
			t.Fatalf("token must not be exposed: %s", w.Body.String())
		}
		if body["client_name"] != "Ana" || body["awaiting_decision"] != true {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		budget, _ := body["budget"].(map[string]any)
		if budget["total"] != 150.0 {
			t.Fatalf("expected total 150, got %v", budget["total"])
		}
	})
}

func TestApprovalHandler_Decisions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("approve applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		snap := awaitingSnapshot()
		snap.Order.Status = entities.OrderStatusApproved
		snap.Order.BudgetApproved = true
		snap.AlreadyApproved = true
		snap.AwaitingDecision = false
		uc.EXPECT().Approve(gomock.Any(), "tok-1").Return(usecase.ApprovalResult{
			Snapshot:      snap,
			Applied:       true,
			EffectOutcome: usecase.EffectOutcome{Warnings: []string{"staff notification failed"}},
		}, nil)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodPost, "/v1/approvals/tok-1/approve", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Applied         bool   `json:"applied"`
			AlreadyApproved bool   `json:"already_approved"`
			Status          string `json:"status"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !body.Applied || !body.AlreadyApproved || body.Status != "approved" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("approve repeat is not applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		uc.EXPECT().Approve(gomock.Any(), "tok-1").Return(usecase.ApprovalResult{Snapshot: awaitingSnapshot()}, nil)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodPost, "/v1/approvals/tok-1/approve", "")
		var body struct {
			Applied bool `json:"applied"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Code != http.StatusOK || body.Applied {
			t.Fatalf("expected 200 with applied=false, got %d %s", w.Code, w.Body.String())
		}
	})

	cases := []struct {
		name string
		path string
		err  error
		code int
		want string
	}{
		{"approve outside awaiting", "/v1/approvals/tok-1/approve", usecase.ErrNotAwaitingDecision, http.StatusConflict, "NOT_AWAITING_APPROVAL"},
		{"reject after approve", "/v1/approvals/tok-1/reject", usecase.ErrBudgetAlreadyApproved, http.StatusConflict, "BUDGET_ALREADY_APPROVED"},
		{"reject unknown token", "/v1/approvals/tok-1/reject", usecase.ErrApprovalNotFound, http.StatusNotFound, "APPROVAL_NOT_FOUND"},
		{"approve not persisted", "/v1/approvals/tok-1/approve", &usecase.PersistenceError{Op: "approve", OrderID: "os-1"}, http.StatusServiceUnavailable, "PERSISTENCE_FAILED"},
		{"approve while costs change", "/v1/approvals/tok-1/approve", usecase.ErrConcurrentUpdate, http.StatusConflict, "CONCURRENT_UPDATE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIApprovalUseCase(ctrl)
			uc.EXPECT().Approve(gomock.Any(), "tok-1").Return(usecase.ApprovalResult{}, tc.err).AnyTimes()
			uc.EXPECT().Reject(gomock.Any(), "tok-1").Return(usecase.ApprovalResult{}, tc.err).AnyTimes()

			w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodPost, tc.path, "")
			if w.Code != tc.code || errorCode(t, w) != tc.want {
				t.Fatalf("expected %d %s, got %d %s", tc.code, tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestApprovalHandler_ApprovalLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("list keeps empty entries as array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		uc.EXPECT().ListApprovals(gomock.Any(), "os-1").Return(usecase.ApprovalSummary{}, nil)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodGet, "/v1/admin/orders/os-1/approvals", "")
		if w.Code != http.StatusOK || w.Body.String() != `{"entries":[],"consolidated_total":0}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("delete returns the new total", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		gomock.InOrder(
			uc.EXPECT().DeleteApprovalEntry(gomock.Any(), "os-1", "ap-1").Return(nil),
			uc.EXPECT().ConsolidatedTotal(gomock.Any(), "os-1").Return(80.0, nil),
		)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodDelete, "/v1/admin/orders/os-1/approvals/ap-1", "")
		if w.Code != http.StatusOK || w.Body.String() != `{"consolidated_total":80}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("delete unknown entry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIApprovalUseCase(ctrl)
		uc.EXPECT().DeleteApprovalEntry(gomock.Any(), "os-1", "ap-9").Return(usecase.ErrApprovalEntryNotFound)

		w := doJSON(approvalRouter(NewApprovalHandler(uc)), http.MethodDelete, "/v1/admin/orders/os-1/approvals/ap-9", "")
		if w.Code != http.StatusNotFound || errorCode(t, w) != "APPROVAL_ENTRY_NOT_FOUND" {
			t.Fatalf("expected 404 APPROVAL_ENTRY_NOT_FOUND, got %d %s", w.Code, w.Body.String())
		}
	})
}
