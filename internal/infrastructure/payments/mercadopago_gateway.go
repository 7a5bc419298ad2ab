package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"

	"assistec/internal/config"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// paymentCreator is the part of payment.Client the gateway calls.
type paymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

type MercadoPagoGateway struct {
	client   paymentCreator
	mockMode bool
	now      func() time.Time
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(cfg config.MercadoPagoConfig) (*MercadoPagoGateway, error) {
	log := logger.With(zap.String("component", "payment_gateway"))
	if cfg.Mock {
		log.Info("mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, now: utcNow}, nil
	}

	if cfg.AccessToken == "" {
		log.Error("missing access token")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	sdkCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		log.Error("failed creating sdk config", zap.Error(err))
		return nil, err
	}
	log.Info("mercado pago client initialized", zap.Bool("sandbox", cfg.Sandbox()))

	return &MercadoPagoGateway{client: payment.NewClient(sdkCfg), now: utcNow}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error) {
	log := logger.With(zap.String("component", "payment_gateway"))

	if g != nil && g.mockMode {
		return g.mockCreate(log, requestPayload)
	}

	if g == nil || g.client == nil {
		log.Error("gateway not configured")
		return "", "", nil, ErrMercadoPagoGatewayNotConfigured
	}
	log.Debug("create start", zap.Int("payload_len", len(requestPayload)))

	var req payment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		log.Warn("payload unmarshal failed", zap.Error(err))
		return "", "", nil, err
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		log.Error("sdk create failed", zap.Error(err))
		return "", "", nil, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Error("response marshal failed", zap.Error(err))
		return "", "", nil, err
	}
	log.Info("create success",
		zap.Any("provider_payment_id", resp.ID),
		zap.String("provider_status", resp.Status),
	)

	return fmt.Sprint(resp.ID), resp.Status, b, nil
}

// mockCreate echoes the request back as an approved payment.
func (g *MercadoPagoGateway) mockCreate(log *zap.Logger, requestPayload json.RawMessage) (string, string, json.RawMessage, error) {
	resp := map[string]any{}
	if len(requestPayload) > 0 && json.Valid(requestPayload) {
		if err := json.Unmarshal(requestPayload, &resp); err != nil {
			resp = map[string]any{"request_payload_raw": string(requestPayload)}
		}
	}

	now := g.now()
	id := strconv.FormatInt(now.UnixNano(), 10)
	ts := now.Format(time.RFC3339Nano)
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	if _, ok := resp["date_created"]; !ok {
		resp["date_created"] = ts
	}
	if _, ok := resp["date_approved"]; !ok {
		resp["date_approved"] = ts
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Error("mock response marshal failed", zap.Error(err))
		return "", "", nil, err
	}

	log.Info("mock create success", zap.String("provider_payment_id", id))
	return id, "approved", b, nil
}

func utcNow() time.Time { return time.Now().UTC() }
