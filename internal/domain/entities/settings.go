package entities

import "time"

// TemplateKey identifies a notification template.
type TemplateKey string

const (
	TemplateAwaitingApproval TemplateKey = "awaiting_approval"
	TemplateReadyForPickup   TemplateKey = "ready_for_pickup"
	TemplateNotApproved      TemplateKey = "not_approved"
	TemplateCompleted        TemplateKey = "completed"
	// TemplateStaffApproval is sent to the shop when a client approves a budget.
	TemplateStaffApproval TemplateKey = "staff_budget_approved"
)

// NotificationSettings holds message templates and business data used to
// fill them. It is resolved once per operation.
type NotificationSettings struct {
	Templates       map[TemplateKey]string `json:"templates"`
	BusinessName    string                 `json:"business_name"`
	BusinessAddress string                 `json:"business_address"`
	BusinessHours   string                 `json:"business_hours"`
	StaffWhatsApp   string                 `json:"staff_whatsapp"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Template returns the template for key, if configured and non-empty.
func (s NotificationSettings) Template(key TemplateKey) (string, bool) {
	t, ok := s.Templates[key]
	if !ok || t == "" {
		return "", false
	}
	return t, true
}
