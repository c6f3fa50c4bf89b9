package usecase

import (
	"context"
	"fmt"
	"strings"

	"creator-os/domain/dto"
	"creator-os/domain/model"
	"creator-os/domain/repository"
	"creator-os/infrastructure/logger"
)

type IInviteUsecase interface {
	Invite(ctx context.Context, req *dto.InviteRequest) (*model.InvitedUser, error)
}

type InviteUsecase struct {
	provider repository.IIdentityProvider
}

func NewInviteUsecase(provider repository.IIdentityProvider) IInviteUsecase {
	return &InviteUsecase{provider: provider}
}

func (u *InviteUsecase) Invite(ctx context.Context, req *dto.InviteRequest) (*model.InvitedUser, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrValidation)
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if u.provider == nil {
		return nil, fmt.Errorf("identity provider is not configured")
	}
	user, err := u.provider.InviteUserByEmail(ctx, req.Email, req.RedirectTo)
	if err != nil {
		return nil, fmt.Errorf("failed to invite user: %w", err)
	}
	logger.GetLogger().WithField("email", req.Email).Info("user invited")
	return user, nil
}
