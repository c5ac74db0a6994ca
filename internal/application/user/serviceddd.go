package user

import (
	"context"

	"github.com/orris-inc/notifyd/internal/application/user/dto"
	"github.com/orris-inc/notifyd/internal/application/user/usecases"
	domainUser "github.com/orris-inc/notifyd/internal/domain/user"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

// ServiceDDD manages the user directory that fan-out resolves against.
type ServiceDDD struct {
	createUserUC     *usecases.CreateUserUseCase
	deactivateUserUC *usecases.DeactivateUserUseCase
	getUserUC        *usecases.GetUserUseCase
	logger           logger.Interface
}

func NewServiceDDD(userRepo domainUser.Repository, logger logger.Interface) *ServiceDDD {
	return &ServiceDDD{
		createUserUC:     usecases.NewCreateUserUseCase(userRepo, logger),
		deactivateUserUC: usecases.NewDeactivateUserUseCase(userRepo, logger),
		getUserUC:        usecases.NewGetUserUseCase(userRepo, logger),
		logger:           logger,
	}
}

func (s *ServiceDDD) CreateUser(ctx context.Context, request dto.CreateUserRequest) (*dto.UserResponse, error) {
	return s.createUserUC.Execute(ctx, request)
}

func (s *ServiceDDD) DeactivateUser(ctx context.Context, username string) (*dto.UserResponse, error) {
	return s.deactivateUserUC.Execute(ctx, username)
}

func (s *ServiceDDD) GetUser(ctx context.Context, username string) (*dto.UserResponse, error) {
	return s.getUserUC.Execute(ctx, username)
}
