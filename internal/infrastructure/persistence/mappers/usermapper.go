package mappers

import (
	"fmt"

	"github.com/orris-inc/notifyd/internal/domain/user"
	vo "github.com/orris-inc/notifyd/internal/domain/user/valueobjects"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
)

// UserMapper converts between directory users and their persistence model
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	username, err := vo.NewUsername(model.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create username value object: %w", err)
	}

	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to create status value object: %w", err)
	}

	role, err := authorization.ParseRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to parse role: %w", err)
	}

	return user.ReconstructUser(model.ID, username, role, status, model.CreatedAt)
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:        entity.ID(),
		Username:  entity.Username().String(),
		Role:      entity.Role().String(),
		Status:    entity.Status().String(),
		CreatedAt: entity.CreatedAt(),
	}
}
