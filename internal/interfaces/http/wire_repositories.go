package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/infrastructure/repository"
	shareddb "github.com/orris-inc/notifyd/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo         *repository.UserRepositoryImpl
	notificationRepo notification.NotificationRepository
	deliveryRepo     notification.DeliveryRepository
	txManager        *shareddb.TransactionManager
}

func newRepositories(db *gorm.DB, batchSize int) *repositories {
	return &repositories{
		userRepo:         repository.NewUserRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		deliveryRepo:     repository.NewUserNotificationRepository(db, batchSize),
		txManager:        shareddb.NewTransactionManager(db),
	}
}
