package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"assistec/internal/adapter/http/handlers/mocks"
	"assistec/internal/domain/entities"
	"assistec/internal/usecase"
)

func orderRouter(h *OrderHandler, actor string) *gin.Engine {
	r := gin.New()
	if actor != "" {
		r.Use(func(c *gin.Context) { c.Set(ActorIDKey, actor); c.Next() })
	}
	g := r.Group("/v1/admin/orders")
	g.POST("", h.CreateOrder)
	g.GET("/:id", h.GetOrder)
	g.DELETE("/:id", h.DeleteOrder)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.PATCH("/:id/discount", h.ApplyDiscount)
	g.GET("/:id/history", h.ListStatusHistory)
	g.POST("/:id/items", h.AddItem)
	g.GET("/:id/items", h.ListItems)
	g.POST("/:id/messages", h.PostMessage)
	g.GET("/:id/messages", h.ListMessages)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error body %q: %v", w.Body.String(), err)
	}
	return body.Code
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing equipment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPost, "/v1/admin/orders", `{"client_id":"cli-1"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown client", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(entities.ServiceOrder{}, usecase.ErrProfileNotFound)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPost, "/v1/admin/orders", `{"client_id":"cli-x","equipment":"Notebook"}`)
		if w.Code != http.StatusNotFound || errorCode(t, w) != "PROFILE_NOT_FOUND" {
			t.Fatalf("expected 404 PROFILE_NOT_FOUND, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("success carries actor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in usecase.CreateOrderInput) (entities.ServiceOrder, error) {
			if in.ActorID == nil || *in.ActorID != "admin-1" {
				t.Fatalf("expected actor admin-1, got %v", in.ActorID)
			}
			if in.ClientID != "cli-1" || in.Equipment != "Notebook" || in.Brand != "Dell" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return entities.ServiceOrder{ID: "os-1", OrderNumber: 1, Status: entities.OrderStatusReceived, CreatedAt: time.Now().UTC()}, nil
		})

		w := doJSON(orderRouter(NewOrderHandler(uc), "admin-1"), http.MethodPost, "/v1/admin/orders", `{"client_id":"cli-1","equipment":"Notebook","brand":"Dell"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("budget with comma decimals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().Transition(gomock.Any(), "os-1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, in usecase.TransitionInput) (usecase.TransitionResult, error) {
			if in.Status != entities.OrderStatusAwaitingApproval {
				t.Fatalf("unexpected status %q", in.Status)
			}
			if in.LaborCost == nil || *in.LaborCost != 150.5 || in.PartsCost == nil || *in.PartsCost != 49.5 {
				t.Fatalf("unexpected costs: %v %v", in.LaborCost, in.PartsCost)
			}
			return usecase.TransitionResult{
				Order: entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusAwaitingApproval, LaborCost: in.LaborCost, PartsCost: in.PartsCost},
				EffectOutcome: usecase.EffectOutcome{
					ExternalLink: "https://wa.me/5511987654321?text=x",
					Notice:       usecase.NoticeExternalMessaging,
				},
			}, nil
		})

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/status", `{"status":"awaiting_approval","labor_cost":"150,50","parts_cost":49.5}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var body struct {
			Order struct {
				Budget struct {
					Total float64 `json:"total"`
				} `json:"budget"`
			} `json:"order"`
			ExternalLink string `json:"external_link"`
			Notice       string `json:"notice"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body.Order.Budget.Total != 200 || body.Notice != usecase.NoticeExternalMessaging || body.ExternalLink == "" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("warnings do not fail the request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().Transition(gomock.Any(), "os-1", gomock.Any()).Return(usecase.TransitionResult{
			Order:         entities.ServiceOrder{ID: "os-1", Status: entities.OrderStatusCompleted},
			EffectOutcome: usecase.EffectOutcome{Notice: usecase.NoticeNotificationFailed, Warnings: []string{"throttled"}},
		}, nil)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/status", `{"status":"completed"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unparseable amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/status", `{"status":"awaiting_approval","labor_cost":"cento e cinquenta"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	cases := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"invalid status", usecase.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"negative amount", usecase.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"order not found", usecase.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"persistence", &usecase.PersistenceError{Op: "transition", OrderID: "os-1", Err: errors.New("throttled")}, http.StatusServiceUnavailable, "PERSISTENCE_FAILED"},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable, "REQUEST_TIMEOUT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIOrderUseCase(ctrl)
			uc.EXPECT().Transition(gomock.Any(), "os-1", gomock.Any()).Return(usecase.TransitionResult{}, tc.err)

			w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/status", `{"status":"analyzing"}`)
			if w.Code != tc.code || errorCode(t, w) != tc.want {
				t.Fatalf("expected %d %s, got %d %s", tc.code, tc.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestOrderHandler_ApplyDiscount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/discount", `{"discount_reason":"x"}`)
		if w.Code != http.StatusBadRequest || errorCode(t, w) != "INVALID_AMOUNT" {
			t.Fatalf("expected 400 INVALID_AMOUNT, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		reason := "cliente antigo"
		uc.EXPECT().ApplyDiscount(gomock.Any(), "os-1", 20.0, &reason).Return(entities.ServiceOrder{
			ID: "os-1", LaborCost: entities.Float(150), PartsCost: entities.Float(50), DiscountAmount: entities.Float(20), DiscountReason: &reason,
		}, nil)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/discount", `{"discount_amount":"20,00","discount_reason":"cliente antigo"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("costs changed concurrently", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().ApplyDiscount(gomock.Any(), "os-1", 20.0, gomock.Any()).Return(entities.ServiceOrder{}, usecase.ErrConcurrentUpdate)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodPatch, "/v1/admin/orders/os-1/discount", `{"discount_amount":"20"}`)
		if w.Code != http.StatusConflict || errorCode(t, w) != "CONCURRENT_UPDATE" {
			t.Fatalf("expected 409 CONCURRENT_UPDATE, got %d %s", w.Code, w.Body.String())
		}
	})
}

func TestOrderHandler_DeleteOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("confirmation required", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().DeleteOrder(gomock.Any(), "os-1", false).Return(usecase.ErrConfirmationRequired)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodDelete, "/v1/admin/orders/os-1", "")
		if w.Code != http.StatusBadRequest || errorCode(t, w) != "CONFIRMATION_REQUIRED" {
			t.Fatalf("expected 400 CONFIRMATION_REQUIRED, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIOrderUseCase(ctrl)
		uc.EXPECT().DeleteOrder(gomock.Any(), "os-1", true).Return(nil)

		w := doJSON(orderRouter(NewOrderHandler(uc), ""), http.MethodDelete, "/v1/admin/orders/os-1?confirm=true", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}

func TestOrderHandler_Reads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIOrderUseCase(ctrl)
	r := orderRouter(NewOrderHandler(uc), "admin-1")

	uc.EXPECT().GetOrder(gomock.Any(), "os-1").Return(usecase.OrderDetails{
		Order:             entities.ServiceOrder{ID: "os-1"},
		Client:            entities.Profile{ID: "cli-1", Name: "Ana"},
		ConsolidatedTotal: 150,
	}, nil)
	uc.EXPECT().GetOrder(gomock.Any(), "missing").Return(usecase.OrderDetails{}, usecase.ErrOrderNotFound)
	uc.EXPECT().ListStatusHistory(gomock.Any(), "os-1").Return(nil, nil)
	uc.EXPECT().ListItems(gomock.Any(), "os-1").Return([]entities.ServiceOrderItem{{ID: "it-1", Equipment: "Mouse"}}, nil)
	uc.EXPECT().ListMessages(gomock.Any(), "os-1").Return(nil, usecase.ErrOrderNotFound)

	if w := doJSON(r, http.MethodGet, "/v1/admin/orders/os-1", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/v1/admin/orders/missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/v1/admin/orders/os-1/history", ""); w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("expected 200 [], got %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(r, http.MethodGet, "/v1/admin/orders/os-1/items", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/v1/admin/orders/os-1/messages", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestOrderHandler_ItemsAndMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIOrderUseCase(ctrl)
	r := orderRouter(NewOrderHandler(uc), "admin-1")

	uc.EXPECT().AddItem(gomock.Any(), "os-1", usecase.AddItemInput{Equipment: "Carregador", Brand: "Dell"}).
		Return(entities.ServiceOrderItem{ID: "it-1", OrderID: "os-1", Equipment: "Carregador"}, nil)
	uc.EXPECT().PostMessage(gomock.Any(), "os-1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, in usecase.PostMessageInput) (entities.OrderMessage, error) {
		if in.SenderRole != entities.SenderRoleAdmin || in.SenderID == nil || *in.SenderID != "admin-1" {
			t.Fatalf("unexpected sender: %+v", in)
		}
		return entities.OrderMessage{ID: "m-1", OrderID: "os-1", SenderRole: in.SenderRole, Body: in.Body}, nil
	})
	uc.EXPECT().PostMessage(gomock.Any(), "os-1", gomock.Any()).Return(entities.OrderMessage{}, usecase.ErrInvalidMessage)

	if w := doJSON(r, http.MethodPost, "/v1/admin/orders/os-1/items", `{"equipment":"Carregador","brand":"Dell"}`); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/v1/admin/orders/os-1/items", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/v1/admin/orders/os-1/messages", `{"body":"Peça chegou"}`); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/v1/admin/orders/os-1/messages", `{"body":"x","sender_role":"robot"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
