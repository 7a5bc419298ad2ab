package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

// ISettingsRepository stores the admin-editable notification settings.
type ISettingsRepository interface {
	// GetNotificationSettings returns found=false when nothing was saved yet.
	GetNotificationSettings(ctx context.Context) (settings entities.NotificationSettings, found bool, err error)
	SaveNotificationSettings(ctx context.Context, settings entities.NotificationSettings) error
}
