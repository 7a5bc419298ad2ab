package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/domain/notify"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

// ISettingsUseCase resolves the notification settings used by every
// operation that sends a message.
type ISettingsUseCase interface {
	GetNotificationSettings(ctx context.Context) (entities.NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, in UpdateSettingsInput) (entities.NotificationSettings, error)
}

// UpdateSettingsInput replaces the stored settings. Templates with an empty
// body fall back to the defaults.
type UpdateSettingsInput struct {
	Templates       map[entities.TemplateKey]string
	BusinessName    string
	BusinessAddress string
	BusinessHours   string
	StaffWhatsApp   string
}

type SettingsUseCase struct {
	repo     interfaces.ISettingsRepository
	defaults entities.NotificationSettings
	now      func() time.Time
}

var _ ISettingsUseCase = (*SettingsUseCase)(nil)

// NewSettingsUseCase uses defaults (business data from configuration) until
// an admin saves settings. Default templates are filled in when missing.
func NewSettingsUseCase(repo interfaces.ISettingsRepository, defaults entities.NotificationSettings) *SettingsUseCase {
	defaults.Templates = notify.MergeTemplates(defaults.Templates)
	return &SettingsUseCase{repo: repo, defaults: defaults, now: func() time.Time { return time.Now().UTC() }}
}

func (u *SettingsUseCase) GetNotificationSettings(ctx context.Context) (entities.NotificationSettings, error) {
	stored, found, err := u.repo.GetNotificationSettings(ctx)
	if err != nil {
		return entities.NotificationSettings{}, err
	}
	if !found {
		return u.withDefaults(entities.NotificationSettings{}), nil
	}
	return u.withDefaults(stored), nil
}

func (u *SettingsUseCase) UpdateNotificationSettings(ctx context.Context, in UpdateSettingsInput) (entities.NotificationSettings, error) {
	for key := range in.Templates {
		if !knownTemplate(key) {
			return entities.NotificationSettings{}, fmt.Errorf("%w: unknown template %q", ErrInvalidSettings, key)
		}
	}
	if phone := strings.TrimSpace(in.StaffWhatsApp); phone != "" && notify.PhoneDigits(phone) == "" {
		return entities.NotificationSettings{}, fmt.Errorf("%w: staff_whatsapp has no digits", ErrInvalidSettings)
	}

	s := entities.NotificationSettings{
		Templates:       in.Templates,
		BusinessName:    strings.TrimSpace(in.BusinessName),
		BusinessAddress: strings.TrimSpace(in.BusinessAddress),
		BusinessHours:   strings.TrimSpace(in.BusinessHours),
		StaffWhatsApp:   strings.TrimSpace(in.StaffWhatsApp),
		UpdatedAt:       u.now(),
	}
	if err := u.repo.SaveNotificationSettings(ctx, s); err != nil {
		logger.Error("save notification settings failed", zap.Error(err))
		return entities.NotificationSettings{}, err
	}
	logger.Info("notification settings updated", zap.Int("templates", len(in.Templates)))
	return u.withDefaults(s), nil
}

func (u *SettingsUseCase) withDefaults(s entities.NotificationSettings) entities.NotificationSettings {
	out := s
	out.Templates = notify.MergeTemplates(u.defaults.Templates)
	for k, v := range s.Templates {
		if v != "" {
			out.Templates[k] = v
		}
	}
	if out.BusinessName == "" {
		out.BusinessName = u.defaults.BusinessName
	}
	if out.BusinessAddress == "" {
		out.BusinessAddress = u.defaults.BusinessAddress
	}
	if out.BusinessHours == "" {
		out.BusinessHours = u.defaults.BusinessHours
	}
	if out.StaffWhatsApp == "" {
		out.StaffWhatsApp = u.defaults.StaffWhatsApp
	}
	return out
}

func knownTemplate(key entities.TemplateKey) bool {
	_, ok := notify.DefaultTemplates()[key]
	return ok
}
