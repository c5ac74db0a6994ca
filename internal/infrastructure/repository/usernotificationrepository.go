package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/notifyd/internal/infrastructure/persistence/models"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	sharedDB "github.com/orris-inc/notifyd/internal/shared/db"
	"github.com/orris-inc/notifyd/internal/shared/errors"
)

const feedColumns = "user_notifications.id AS delivery_id, " +
	"user_notifications.user_id, " +
	"user_notifications.notification_id, " +
	"user_notifications.is_read, " +
	"user_notifications.read_at, " +
	"user_notifications.created_at AS delivered_at, " +
	"notifications.message, " +
	"notifications.target_url, " +
	"notifications.recipient_username, " +
	"notifications.role_targets, " +
	"notifications.created_at"

type UserNotificationRepositoryImpl struct {
	db        *gorm.DB
	mapper    mappers.NotificationMapper
	batchSize int
}

func NewUserNotificationRepository(db *gorm.DB, batchSize int) notification.DeliveryRepository {
	if batchSize <= 0 {
		batchSize = constants.DefaultFanoutBatchSize
	}
	return &UserNotificationRepositoryImpl{
		db:        db,
		mapper:    mappers.NewNotificationMapper(),
		batchSize: batchSize,
	}
}

func (r *UserNotificationRepositoryImpl) CreateUserNotifications(ctx context.Context, notificationID uint, userIDs []uint) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([]*models.UserNotificationModel, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, &models.UserNotificationModel{
			UserID:         userID,
			NotificationID: notificationID,
			IsRead:         false,
			CreatedAt:      now,
		})
	}

	var inserted int64
	err := sharedDB.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, r.batchSize)
		if result.Error != nil {
			return result.Error
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, errors.NewTransientError("failed to create user notifications", err)
	}

	return inserted, nil
}

func (r *UserNotificationRepositoryImpl) FilterUndelivered(ctx context.Context, notificationID uint, userIDs []uint) ([]uint, error) {
	if len(userIDs) == 0 {
		return []uint{}, nil
	}

	delivered := make(map[uint]struct{})
	db := sharedDB.GetTxFromContext(ctx, r.db)
	for start := 0; start < len(userIDs); start += r.batchSize {
		end := min(start+r.batchSize, len(userIDs))

		var existing []uint
		err := db.Model(&models.UserNotificationModel{}).
			Where("notification_id = ? AND user_id IN ?", notificationID, userIDs[start:end]).
			Pluck("user_id", &existing).Error
		if err != nil {
			return nil, errors.NewTransientError("failed to load existing deliveries", err)
		}
		for _, id := range existing {
			delivered[id] = struct{}{}
		}
	}

	missing := make([]uint, 0, len(userIDs)-len(delivered))
	for _, id := range userIDs {
		if _, ok := delivered[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *UserNotificationRepositoryImpl) feed(ctx context.Context, userID uint, unreadOnly bool) *gorm.DB {
	q := sharedDB.GetTxFromContext(ctx, r.db).
		Table(constants.TableUserNotifications).
		Joins("JOIN notifications ON notifications.id = user_notifications.notification_id").
		Scopes(sharedDB.OwnedBy(userID))
	if unreadOnly {
		q = q.Scopes(sharedDB.Unread())
	}
	return q
}

func (r *UserNotificationRepositoryImpl) scanFeed(q *gorm.DB) ([]*notification.FeedItem, error) {
	var rows []*models.FeedRow
	if err := q.Select(feedColumns).Scopes(sharedDB.NewestFirst()).Scan(&rows).Error; err != nil {
		return nil, errors.NewTransientError("failed to load notification feed", err)
	}

	items, err := r.mapper.FeedRowsToItems(rows)
	if err != nil {
		return nil, errors.NewInternalError("failed to map notification feed", err.Error())
	}
	if items == nil {
		items = []*notification.FeedItem{}
	}
	return items, nil
}

func (r *UserNotificationRepositoryImpl) FindUnreadForUser(ctx context.Context, userID uint) ([]*notification.FeedItem, error) {
	return r.scanFeed(r.feed(ctx, userID, true))
}

func (r *UserNotificationRepositoryImpl) FindAllForUser(ctx context.Context, userID uint, includeRead bool, limit, offset int) ([]*notification.FeedItem, int64, error) {
	var total int64
	if err := r.feed(ctx, userID, !includeRead).Count(&total).Error; err != nil {
		return nil, 0, errors.NewTransientError("failed to count notifications", err)
	}

	q := r.feed(ctx, userID, !includeRead)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	items, err := r.scanFeed(q)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *UserNotificationRepositoryImpl) markRead(ctx context.Context, userID uint, notificationIDs []uint) (int64, error) {
	q := sharedDB.GetTxFromContext(ctx, r.db).
		Model(&models.UserNotificationModel{}).
		Scopes(sharedDB.OwnedBy(userID), sharedDB.Unread())
	if notificationIDs != nil {
		q = q.Where("user_notifications.notification_id IN ?", notificationIDs)
	}

	result := q.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return 0, errors.NewTransientError("failed to mark notifications as read", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *UserNotificationRepositoryImpl) MarkRead(ctx context.Context, userID uint, notificationIDs []uint) (int64, error) {
	if len(notificationIDs) == 0 {
		return 0, nil
	}
	return r.markRead(ctx, userID, notificationIDs)
}

func (r *UserNotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return r.markRead(ctx, userID, nil)
}

func (r *UserNotificationRepositoryImpl) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := sharedDB.GetTxFromContext(ctx, r.db).
		Model(&models.UserNotificationModel{}).
		Scopes(sharedDB.OwnedBy(userID), sharedDB.Unread()).
		Count(&count).Error
	if err != nil {
		return 0, errors.NewTransientError("failed to count unread notifications", err)
	}
	return count, nil
}
