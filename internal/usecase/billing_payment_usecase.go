package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

var (
	ErrBillingPaymentNotFound         = fmt.Errorf("billing payment %w", ErrNotFound)
	ErrInvalidPaymentID               = fmt.Errorf("%w: invalid payment id", ErrValidation)
	ErrInvalidMPPayload               = fmt.Errorf("%w: invalid mercado pago payload", ErrValidation)
	ErrOrderNotApproved               = errors.New("order has no approved budget")
	ErrOrderAlreadyPaid               = errors.New("approved total already paid")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// IBillingPaymentUseCase charges the approved budgets of an order.
//
// The amount is never taken from the caller: it is the consolidated approved
// total minus what was already paid.
type IBillingPaymentUseCase interface {
	CreatePayment(ctx context.Context, orderID string, mpPayload json.RawMessage) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.BillingPayment, error)
}

// PaymentOptions mirrors the mercadopago configuration section.
type PaymentOptions struct {
	MockMode bool
	// SandboxToken reports a TEST- access token.
	SandboxToken    bool
	TestPayerEmail  string
	TestPayerUserID string
}

type BillingPaymentUseCase struct {
	repo    interfaces.IBillingPaymentRepository
	orders  interfaces.IServiceOrderRepository
	history interfaces.IOrderHistoryRepository
	gateway interfaces.IPaymentGateway
	opts    PaymentOptions
}

var _ IBillingPaymentUseCase = (*BillingPaymentUseCase)(nil)

func NewBillingPaymentUseCase(
	repo interfaces.IBillingPaymentRepository,
	orders interfaces.IServiceOrderRepository,
	history interfaces.IOrderHistoryRepository,
	gateway interfaces.IPaymentGateway,
	opts PaymentOptions,
) *BillingPaymentUseCase {
	return &BillingPaymentUseCase{repo: repo, orders: orders, history: history, gateway: gateway, opts: opts}
}

func (u *BillingPaymentUseCase) CreatePayment(ctx context.Context, orderID string, mpPayload json.RawMessage) (entities.BillingPayment, error) {
	orderID = strings.TrimSpace(orderID)
	log := logger.With(zap.String("order_id", orderID))
	log.Info("create payment start", zap.Int("payload_len", len(mpPayload)))
	if orderID == "" {
		return entities.BillingPayment{}, ErrInvalidOrderID
	}
	if len(mpPayload) == 0 || !json.Valid(mpPayload) {
		if !u.opts.MockMode {
			log.Warn("invalid payment payload")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		mpPayload = json.RawMessage("{}")
	}
	if u.gateway == nil {
		return entities.BillingPayment{}, ErrPaymentGatewayNotConfigured
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if order.ID == "" {
		return entities.BillingPayment{}, ErrOrderNotFound
	}

	amount, err := u.outstanding(ctx, order.ID)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	log.Info("outstanding amount computed", zap.Float64("amount", amount))

	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err != nil {
		return entities.BillingPayment{}, ErrInvalidMPPayload
	}
	if !u.opts.MockMode {
		if !hasNonEmptyString(reqMap, "payment_method_id") {
			log.Warn("missing payment_method_id")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
		u.normalizeSandboxPayer(reqMap)
		u.ensurePayerDefaults(reqMap)
		if !hasPayer(reqMap) {
			log.Warn("missing or invalid payer")
			return entities.BillingPayment{}, ErrInvalidMPPayload
		}
	}
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = order.ID
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("OS #%d - %s", order.OrderNumber, order.Equipment)
	}
	// The approval log is the source of truth for the amount.
	reqMap["transaction_amount"] = amount
	if mpPayload, err = json.Marshal(reqMap); err != nil {
		return entities.BillingPayment{}, err
	}

	providerPaymentID, providerStatus, providerResp, err := u.gateway.CreatePayment(ctx, mpPayload)
	if err != nil {
		log.Error("payment gateway failed", zap.Error(err))
		return entities.BillingPayment{}, mapGatewayError(err)
	}
	if providerPaymentID == "" {
		providerPaymentID = strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Warn("provider response unmarshal failed", zap.Error(err))
	}

	p := entities.BillingPayment{
		ID:           providerPaymentID,
		OrderID:      order.ID,
		Amount:       amount,
		Date:         time.Now().UTC(),
		Status:       entities.PaymentStatusFromProvider(providerStatus),
		MPPayloadRaw: providerResp,
		MPPayload:    parsed,
	}
	created, err := u.repo.Create(ctx, p)
	if err != nil {
		return entities.BillingPayment{}, logPersistenceError(&PersistenceError{Op: "create payment " + p.ID, OrderID: order.ID, At: p.Date, Err: err})
	}
	log.Info("create payment success",
		zap.String("payment_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("provider_status", providerStatus),
	)
	return created, nil
}

// outstanding is the consolidated approved total minus approved payments.
func (u *BillingPaymentUseCase) outstanding(ctx context.Context, orderID string) (float64, error) {
	approvals, err := u.history.ListApprovalHistory(ctx, orderID)
	if err != nil {
		return 0, err
	}
	total := entities.ConsolidatedTotal(approvals)
	if total <= 0 {
		return 0, ErrOrderNotApproved
	}

	payments, err := u.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	var paid float64
	for _, p := range payments {
		if p.Status == entities.PaymentStatusAprovado {
			paid += p.Amount
		}
	}
	due := entities.RoundCents(total - paid)
	if due <= 0 {
		return 0, ErrOrderAlreadyPaid
	}
	return due, nil
}

func (u *BillingPaymentUseCase) GetByID(ctx context.Context, id string) (entities.BillingPayment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.BillingPayment{}, ErrInvalidPaymentID
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.BillingPayment{}, err
	}
	if p.ID == "" {
		return entities.BillingPayment{}, ErrBillingPaymentNotFound
	}
	return p, nil
}

func (u *BillingPaymentUseCase) ListByOrderID(ctx context.Context, orderID string) ([]entities.BillingPayment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return u.repo.ListByOrderID(ctx, orderID)
}

func (u *BillingPaymentUseCase) ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}

	// In sandbox either payer.id or payer.email may be used; fill email only
	// when both are missing.
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") {
		if u.opts.TestPayerEmail != "" {
			payer["email"] = u.opts.TestPayerEmail
		} else if u.opts.SandboxToken {
			payer["email"] = "test_user_br@testuser.com"
		}
	}
}

// normalizeSandboxPayer swaps the configured sandbox user id for its email,
// which is what the sandbox accepts.
func (u *BillingPaymentUseCase) normalizeSandboxPayer(m map[string]any) {
	if !u.opts.SandboxToken || u.opts.TestPayerUserID == "" || u.opts.TestPayerEmail == "" {
		return
	}
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != u.opts.TestPayerUserID {
		return
	}
	payer["email"] = u.opts.TestPayerEmail
	delete(payer, "id")
	logger.Debug("mapped sandbox payer user id to email")
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

// mapGatewayError recognizes the Mercado Pago error bodies worth a distinct
// response.
func mapGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found"), strings.Contains(msg, `"code":2002`):
		return ErrPaymentGatewayCustomerNotFound
	case strings.Contains(msg, "invalid users involved"), strings.Contains(msg, `"code":2034`):
		return ErrPaymentGatewayInvalidUsers
	case strings.Contains(msg, `"error":"unauthorized"`), strings.Contains(msg, `"status":401`):
		return ErrPaymentGatewayUnauthorized
	case strings.Contains(msg, `"error":"bad_request"`), strings.Contains(msg, `"status":400`):
		return ErrPaymentGatewayBadRequest
	}
	return err
}
