package interfaces

import (
	"context"

	"assistec/internal/domain/entities"
)

// IProfileRepository stores clients. GetByID returns a zero Profile when not found.
type IProfileRepository interface {
	Create(ctx context.Context, p entities.Profile) (entities.Profile, error)
	GetByID(ctx context.Context, id string) (entities.Profile, error)
}
