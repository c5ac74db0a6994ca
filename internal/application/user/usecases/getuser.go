package usecases

import (
	"context"

	"github.com/orris-inc/notifyd/internal/application/user/dto"
	domainUser "github.com/orris-inc/notifyd/internal/domain/user"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

type GetUserUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewGetUserUseCase(userRepo domainUser.Repository, logger logger.Interface) *GetUserUseCase {
	return &GetUserUseCase{userRepo: userRepo, logger: logger}
}

func (uc *GetUserUseCase) Execute(ctx context.Context, username string) (*dto.UserResponse, error) {
	u, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(u), nil
}
