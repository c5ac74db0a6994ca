package repository

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/domain/user"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/shared/authorization"
	sharedDB "github.com/orris-inc/notifyd/internal/shared/db"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

// UserRepositoryImpl backs both user.Repository and user.Directory.
type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewUserRepository(db *gorm.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mappers.NewUserMapper(),
	}
}

var (
	_ user.Repository = (*UserRepositoryImpl)(nil)
	_ user.Directory  = (*UserRepositoryImpl)(nil)
)

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := sharedDB.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("username already exists", u.Username().String())
		}
		return errors.NewTransientError("failed to create user", err)
	}
	return u.SetID(model.ID)
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var model models.UserModel
	err := sharedDB.GetTxFromContext(ctx, r.db).
		Where("username = ?", username).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("user not found", username)
		}
		return nil, errors.NewTransientError("failed to get user by username", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, errors.NewInternalError("failed to map user model to entity", err.Error())
	}
	return entity, nil
}

func (r *UserRepositoryImpl) UpdateStatus(ctx context.Context, u *user.User) error {
	result := sharedDB.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", u.ID()).
		Update("status", u.Status().String())
	if result.Error != nil {
		return errors.NewTransientError("failed to update user status", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("user not found")
	}
	return nil
}

func (r *UserRepositoryImpl) activeUsers(ctx context.Context) *gorm.DB {
	return sharedDB.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Scopes(sharedDB.ActiveUsers())
}

func (r *UserRepositoryImpl) FindActiveIDByUsername(ctx context.Context, username string) (uint, error) {
	var ids []uint
	err := r.activeUsers(ctx).
		Where("users.username = ?", username).
		Limit(1).
		Pluck("users.id", &ids).Error
	if err != nil {
		return 0, errors.NewTransientError("failed to resolve recipient username", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (r *UserRepositoryImpl) ListActiveIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.activeUsers(ctx).Order("users.id").Pluck("users.id", &ids).Error; err != nil {
		return nil, errors.NewTransientError("failed to list active users", err)
	}
	return ids, nil
}

func (r *UserRepositoryImpl) ListActiveIDsByRoles(ctx context.Context, roles []authorization.Role) ([]uint, error) {
	if len(roles) == 0 {
		return []uint{}, nil
	}

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.String()
	}

	var ids []uint
	err := r.activeUsers(ctx).
		Where("users.role IN ?", names).
		Order("users.id").
		Pluck("users.id", &ids).Error
	if err != nil {
		return nil, errors.NewTransientError("failed to list users by role", err)
	}
	return ids, nil
}

