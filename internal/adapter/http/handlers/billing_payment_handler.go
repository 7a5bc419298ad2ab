package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	response "assistec/internal/adapter/http/dto/response"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase"
	"assistec/pkg"
)

// BillingPaymentHandler handles HTTP requests for payments of approved budgets.
type BillingPaymentHandler struct {
	usecase  usecase.IBillingPaymentUseCase
	mockMode bool
}

// NewBillingPaymentHandler builds the handler. In mock mode an unreadable
// body falls back to an empty Mercado Pago payload.
func NewBillingPaymentHandler(uc usecase.IBillingPaymentUseCase, mockMode bool) *BillingPaymentHandler {
	return &BillingPaymentHandler{usecase: uc, mockMode: mockMode}
}

// CreatePayment godoc
// @Summary  Charge the outstanding approved total of an order
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    id   path string true "Order ID"
// @Param    body body request.BillingPaymentCreateRequest false "Mercado Pago payload"
// @Success  200 {object} response.BillingPaymentResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Failure  409 {object} pkg.HTTPError
// @Security Bearer
// @Router   /admin/orders/{id}/payments [post]
func (h *BillingPaymentHandler) CreatePayment(c *gin.Context) {
	orderID := c.Param("id")
	log := logger.With(zap.String("order_id", orderID))
	log.Debug("payment create start")

	mpPayload, err := readMPPayload(c)
	if err != nil {
		if !h.mockMode {
			log.Warn("invalid payment payload", zap.Error(err))
			writeError(c, errInvalidRequest)
			return
		}
		log.Info("payload invalid in mock mode; fallback to empty payload", zap.Error(err))
		mpPayload = json.RawMessage("{}")
	}

	created, err := h.usecase.CreatePayment(c.Request.Context(), orderID, mpPayload)
	if err != nil {
		log.Warn("payment create failed", zap.Error(err))
		writeError(c, mapBillingPaymentError(err))
		return
	}
	log.Info("payment created", zap.String("payment_id", created.ID), zap.String("status", string(created.Status)))

	c.JSON(http.StatusOK, response.FromBillingPayment(created))
}

// ListPayments returns every payment of an order, oldest first.
func (h *BillingPaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.usecase.ListByOrderID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapBillingPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromBillingPayments(payments))
}

func (h *BillingPaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		writeError(c, mapBillingPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromBillingPayment(p))
}

// readMPPayload accepts either the bare Mercado Pago payload or one wrapped
// in {"mp_payload": ...}.
func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if w := strings.TrimSpace(string(wrapped)); w == "" || w == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapBillingPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", err, http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrOrderNotApproved):
		return pkg.NewDomainErrorSimple("ORDER_NOT_APPROVED", "Order has no approved budget", http.StatusConflict)
	case errors.Is(err, usecase.ErrOrderAlreadyPaid):
		return pkg.NewDomainErrorSimple("ORDER_ALREADY_PAID", "Approved total already paid", http.StatusConflict)
	case errors.Is(err, usecase.ErrBillingPaymentNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_FOUND", "Payment not found", http.StatusNotFound)
	default:
		return mapOrderError(err)
	}
}
