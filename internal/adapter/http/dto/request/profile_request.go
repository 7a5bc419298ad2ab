package request

type CreateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UpdateSettingsRequest replaces the notification settings. Template keys
// are the order statuses that notify the client plus staff_budget_approved.
type UpdateSettingsRequest struct {
	Templates       map[string]string `json:"templates"`
	BusinessName    string            `json:"business_name"`
	BusinessAddress string            `json:"business_address"`
	BusinessHours   string            `json:"business_hours"`
	StaffWhatsApp   string            `json:"staff_whatsapp"`
}
