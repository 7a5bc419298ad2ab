// Package messaging delivers outbox messages through Twilio's WhatsApp API.
package messaging

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"assistec/internal/config"
	"assistec/internal/domain/notify"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

var (
	ErrMissingTwilioCredentials = errors.New("missing TWILIO_ACCOUNT_SID or TWILIO_AUTH_TOKEN")
	ErrMissingWhatsAppSender    = errors.New("missing TWILIO_WHATSAPP_NUMBER")
	ErrInvalidRecipient         = errors.New("recipient has no phone digits")
)

const whatsAppScheme = "whatsapp:"

// messageCreator is the part of the Twilio REST API the messenger calls.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioMessenger struct {
	api      messageCreator
	from     string
	mockMode bool
}

var _ interfaces.IMessenger = (*TwilioMessenger)(nil)

func NewTwilioMessenger(cfg config.TwilioConfig) (*TwilioMessenger, error) {
	log := logger.With(zap.String("component", "messenger"))
	if cfg.Mock {
		log.Info("mock mode enabled")
		return &TwilioMessenger{mockMode: true}, nil
	}
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, ErrMissingTwilioCredentials
	}
	if strings.TrimSpace(cfg.WhatsAppFrom) == "" {
		return nil, ErrMissingWhatsAppSender
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	log.Info("twilio client initialized")
	return &TwilioMessenger{api: client.Api, from: whatsAppAddress(cfg.WhatsAppFrom)}, nil
}

// SendWhatsApp sends body to a local or international number.
func (m *TwilioMessenger) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	recipient := whatsAppAddress(to)
	if recipient == "" {
		return "", ErrInvalidRecipient
	}
	log := logger.With(zap.String("component", "messenger"), zap.String("to", recipient))

	if m.mockMode {
		sid := "mock-" + uuid.NewString()
		log.Info("mock whatsapp sent", zap.String("sid", sid), zap.Int("body_len", len(body)))
		return sid, nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(m.from)
	params.SetBody(body)

	resp, err := m.api.CreateMessage(params)
	if err != nil {
		log.Warn("whatsapp send failed", zap.Error(err))
		return "", err
	}
	var sid string
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Info("whatsapp sent", zap.String("sid", sid))
	return sid, nil
}

// whatsAppAddress renders phone as whatsapp:+<E.164>. Local Brazilian
// numbers get the 55 country code.
func whatsAppAddress(phone string) string {
	digits := notify.PhoneDigits(strings.TrimPrefix(strings.TrimSpace(phone), whatsAppScheme))
	if digits == "" {
		return ""
	}
	if len(digits) == 10 || len(digits) == 11 {
		digits = "55" + digits
	}
	return whatsAppScheme + "+" + digits
}
