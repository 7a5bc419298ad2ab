package entities

import "time"

// OutboxChannel is where an outbox message is delivered.
type OutboxChannel string

const (
	// OutboxChannelChat appends the body to the order chat thread.
	OutboxChannelChat OutboxChannel = "chat"
	// OutboxChannelWhatsApp sends the body to Recipient through the messaging provider.
	OutboxChannelWhatsApp OutboxChannel = "whatsapp"
)

type OutboxStatus string

const (
	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// OutboxMessage is a secondary effect persisted after its primary write
// committed. Delivery is retried until MaxAttempts.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (status-index): status
type OutboxMessage struct {
	ID        string        `json:"id"`
	OrderID   string        `json:"order_id"`
	Channel   OutboxChannel `json:"channel"`
	Recipient string        `json:"recipient,omitempty"`
	Body      string        `json:"body"`
	Status    OutboxStatus  `json:"status"`
	Attempts  int           `json:"attempts"`
	LastError string        `json:"last_error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
