package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistec/internal/config"
)

type fakeCreator struct {
	got  payment.Request
	resp *payment.Response
	err  error
}

func (f *fakeCreator) Create(_ context.Context, req payment.Request) (*payment.Response, error) {
	f.got = req
	return f.resp, f.err
}

func TestMercadoPagoGateway_Mock(t *testing.T) {
	g, err := NewMercadoPagoGateway(config.MercadoPagoConfig{Mock: true})
	require.NoError(t, err)
	g.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	id, status, raw, err := g.CreatePayment(context.Background(), json.RawMessage(`{"transaction_amount":180,"date_created":"fixed"}`))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000000000", id)
	assert.Equal(t, "approved", status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 180.0, body["transaction_amount"])
	assert.Equal(t, "fixed", body["date_created"])
	assert.Equal(t, "accredited", body["status_detail"])
}

func TestMercadoPagoGateway_Create(t *testing.T) {
	fake := &fakeCreator{resp: &payment.Response{Status: "approved"}}
	g := &MercadoPagoGateway{client: fake, now: utcNow}

	_, status, raw, err := g.CreatePayment(context.Background(), json.RawMessage(`{"transaction_amount":99.9,"payment_method_id":"pix"}`))
	require.NoError(t, err)
	assert.Equal(t, "approved", status)
	assert.NotEmpty(t, raw)
	assert.Equal(t, 99.9, fake.got.TransactionAmount)
	assert.Equal(t, "pix", fake.got.PaymentMethodID)
}

func TestMercadoPagoGateway_Errors(t *testing.T) {
	_, err := NewMercadoPagoGateway(config.MercadoPagoConfig{})
	assert.ErrorIs(t, err, ErrMissingMercadoPagoAccessToken)

	var nilGateway *MercadoPagoGateway
	_, _, _, err = nilGateway.CreatePayment(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrMercadoPagoGatewayNotConfigured)

	g := &MercadoPagoGateway{client: &fakeCreator{err: errors.New("400 bad_request")}, now: utcNow}
	_, _, _, err = g.CreatePayment(context.Background(), json.RawMessage(`{"transaction_amount":1}`))
	assert.EqualError(t, err, "400 bad_request")

	_, _, _, err = g.CreatePayment(context.Background(), json.RawMessage(`not json`))
	assert.Error(t, err)
}
