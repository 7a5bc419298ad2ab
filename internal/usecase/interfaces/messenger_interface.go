package interfaces

import "context"

//go:generate mockgen -source=messenger_interface.go -destination=mocks/mock_messenger.go -package=mock_interfaces

// IMessenger sends text messages through an external provider (e.g. Twilio WhatsApp).
type IMessenger interface {
	SendWhatsApp(ctx context.Context, to, body string) (providerMessageID string, err error)
}
