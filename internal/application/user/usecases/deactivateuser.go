package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/notifyd/internal/application/user/dto"
	domainUser "github.com/orris-inc/notifyd/internal/domain/user"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// DeactivateUserUseCase removes a user from future fan-outs. Existing
// deliveries are kept.
type DeactivateUserUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewDeactivateUserUseCase(
	userRepo domainUser.Repository,
	logger logger.Interface,
) *DeactivateUserUseCase {
	return &DeactivateUserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *DeactivateUserUseCase) Execute(ctx context.Context, username string) (*dto.UserResponse, error) {
	uc.logger.Infow("executing deactivate user use case", "username", username)

	u, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return dto.ToUserResponse(u), nil
	}

	u.Deactivate()
	if err := uc.userRepo.UpdateStatus(ctx, u); err != nil {
		uc.logger.Errorw("failed to deactivate user", "username", username, "error", err)
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}

	uc.logger.Infow("user deactivated", "id", u.ID(), "username", username)
	return dto.ToUserResponse(u), nil
}
