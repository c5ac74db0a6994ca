package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/notifyd/internal/application/user/dto"
	domainUser "github.com/orris-inc/notifyd/internal/domain/user"
	vo "github.com/orris-inc/notifyd/internal/domain/user/valueobjects"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils"
)

// CreateUserUseCase adds a user to the directory.
type CreateUserUseCase struct {
	userRepo domainUser.Repository
	logger   logger.Interface
}

func NewCreateUserUseCase(
	userRepo domainUser.Repository,
	logger logger.Interface,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error) {
	uc.logger.Infow("executing create user use case", "username", request.Username, "role", request.Role)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	username, err := vo.NewUsername(request.Username)
	if err != nil {
		return nil, err
	}

	role, err := authorization.ParseRole(request.Role)
	if err != nil {
		return nil, err
	}

	userEntity, err := domainUser.NewUser(username, role)
	if err != nil {
		uc.logger.Errorw("failed to create user entity", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := uc.userRepo.Create(ctx, userEntity); err != nil {
		if errors.IsConflictError(err) {
			uc.logger.Warnw("username already exists", "username", username.String())
			return nil, err
		}
		uc.logger.Errorw("failed to persist user", "error", err)
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	uc.logger.Infow("user created", "id", userEntity.ID(), "username", username.String())
	return dto.ToUserResponse(userEntity), nil
}
