package mappers

import (
	"fmt"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/shared/mapper"
)

type NotificationMapper interface {
	ToEntity(model *models.NotificationModel) (*notification.Notification, error)
	ToModel(entity *notification.Notification) (*models.NotificationModel, error)
	FeedRowToItem(row *models.FeedRow) (*notification.FeedItem, error)
	FeedRowsToItems(rows []*models.FeedRow) ([]*notification.FeedItem, error)
}

type NotificationMapperImpl struct{}

func NewNotificationMapper() NotificationMapper {
	return &NotificationMapperImpl{}
}

func targetSpecFromColumns(recipient *string, roleTargets []string) (vo.TargetSpec, error) {
	username := ""
	if recipient != nil {
		username = *recipient
	}
	return vo.NewTargetSpec(username, roleTargets)
}

func (m *NotificationMapperImpl) ToEntity(model *models.NotificationModel) (*notification.Notification, error) {
	if model == nil {
		return nil, nil
	}

	target, err := targetSpecFromColumns(model.RecipientUsername, model.RoleTargets)
	if err != nil {
		return nil, fmt.Errorf("failed to restore target spec: %w", err)
	}

	entity, err := notification.ReconstructNotification(
		model.ID,
		model.Message,
		model.TargetURL,
		target,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct notification entity: %w", err)
	}

	return entity, nil
}

func (m *NotificationMapperImpl) ToModel(entity *notification.Notification) (*models.NotificationModel, error) {
	if entity == nil {
		return nil, nil
	}

	target := entity.Target()
	model := &models.NotificationModel{
		ID:          entity.ID(),
		Message:     entity.Message(),
		TargetURL:   entity.TargetURL(),
		RoleTargets: target.Strings(),
		CreatedAt:   entity.CreatedAt(),
	}
	if target.HasRecipient() {
		username := target.RecipientUsername()
		model.RecipientUsername = &username
	}

	return model, nil
}

func (m *NotificationMapperImpl) FeedRowToItem(row *models.FeedRow) (*notification.FeedItem, error) {
	if row == nil {
		return nil, nil
	}

	n, err := m.ToEntity(&models.NotificationModel{
		ID:                row.NotificationID,
		Message:           row.Message,
		TargetURL:         row.TargetURL,
		RecipientUsername: row.RecipientUsername,
		RoleTargets:       row.RoleTargets,
		CreatedAt:         row.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	delivery, err := notification.ReconstructUserNotification(
		row.DeliveryID,
		row.UserID,
		row.NotificationID,
		row.IsRead,
		row.ReadAt,
		row.DeliveredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user notification: %w", err)
	}

	return &notification.FeedItem{Notification: n, Delivery: delivery}, nil
}

func (m *NotificationMapperImpl) FeedRowsToItems(rows []*models.FeedRow) ([]*notification.FeedItem, error) {
	return mapper.MapSlicePtrWithID(rows, m.FeedRowToItem, func(row *models.FeedRow) uint { return row.DeliveryID })
}
