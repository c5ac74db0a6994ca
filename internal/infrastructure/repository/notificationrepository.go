package repository

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	sharedDB "github.com/orris-inc/notifyd/internal/shared/db"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) notification.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mappers.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notif *notification.Notification) error {
	model, err := r.mapper.ToModel(notif)
	if err != nil {
		return errors.NewInternalError("failed to map notification entity to model", err.Error())
	}

	if err := sharedDB.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return errors.NewTransientError("failed to create notification", err)
	}

	return notif.SetID(model.ID)
}

func (r *NotificationRepositoryImpl) GetByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var model models.NotificationModel

	if err := sharedDB.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("notification not found")
		}
		return nil, errors.NewTransientError("failed to get notification by ID", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, errors.NewInternalError("failed to map notification model to entity", err.Error())
	}

	return entity, nil
}
