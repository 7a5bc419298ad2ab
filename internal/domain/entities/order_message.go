package entities

import "time"

type SenderRole string

const (
	SenderRoleAdmin  SenderRole = "admin"
	SenderRoleClient SenderRole = "client"
	SenderRoleSystem SenderRole = "system"
)

func (r SenderRole) Valid() bool {
	switch r {
	case SenderRoleAdmin, SenderRoleClient, SenderRoleSystem:
		return true
	}
	return false
}

// OrderMessage is a chat message between client and technician on an order.
type OrderMessage struct {
	ID         string     `json:"id"`
	OrderID    string     `json:"order_id"`
	SenderID   *string    `json:"sender_id"`
	SenderRole SenderRole `json:"sender_role"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
}
