package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"assistec/internal/domain/entities"
	"assistec/internal/pkg/logger"
	"assistec/internal/usecase/interfaces"
)

type IProfileUseCase interface {
	CreateProfile(ctx context.Context, in CreateProfileInput) (entities.Profile, error)
	GetProfile(ctx context.Context, id string) (entities.Profile, error)
}

type CreateProfileInput struct {
	Name  string
	Phone string
	Email string
}

type ProfileUseCase struct {
	repo interfaces.IProfileRepository
}

var _ IProfileUseCase = (*ProfileUseCase)(nil)

func NewProfileUseCase(repo interfaces.IProfileRepository) *ProfileUseCase {
	return &ProfileUseCase{repo: repo}
}

func (u *ProfileUseCase) CreateProfile(ctx context.Context, in CreateProfileInput) (entities.Profile, error) {
	p := entities.Profile{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: time.Now().UTC(),
	}
	if p.Name == "" && p.Phone == "" && p.Email == "" {
		return entities.Profile{}, fmt.Errorf("%w: name, phone or email is required", ErrInvalidProfileInput)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return entities.Profile{}, fmt.Errorf("%w: email %q", ErrInvalidProfileInput, p.Email)
		}
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		logger.Error("create profile failed", zap.Error(err))
		return entities.Profile{}, err
	}
	logger.Info("profile created", zap.String("profile_id", created.ID))
	return created, nil
}

func (u *ProfileUseCase) GetProfile(ctx context.Context, id string) (entities.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Profile{}, fmt.Errorf("%w: empty profile id", ErrInvalidProfileInput)
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Profile{}, err
	}
	if p.ID == "" {
		return entities.Profile{}, ErrProfileNotFound
	}
	return p, nil
}
