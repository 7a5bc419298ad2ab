package entities

import (
	"strings"
	"time"
)

// DefaultClientName is used wherever a client has no display name.
const DefaultClientName = "Cliente"

// Profile is a client of the shop.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Profile) DisplayName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return DefaultClientName
}
