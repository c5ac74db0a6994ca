package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/notifyd/internal/application/notification/dto"
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/errors"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

type ListUnreadUseCase struct {
	repo            notification.DeliveryRepository
	markdownService dto.MarkdownService
	logger          logger.Interface
}

func NewListUnreadUseCase(
	repo notification.DeliveryRepository,
	markdownService dto.MarkdownService,
	logger logger.Interface,
) *ListUnreadUseCase {
	return &ListUnreadUseCase{
		repo:            repo,
		markdownService: markdownService,
		logger:          logger,
	}
}

func (uc *ListUnreadUseCase) Execute(ctx context.Context, userID uint) ([]*dto.NotificationItem, error) {
	if userID == 0 {
		return nil, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	items, err := uc.repo.FindUnreadForUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list unread notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}

	uc.logger.Debugw("unread notifications listed", "user_id", userID, "count", len(items))
	return dto.ToNotificationItems(items, uc.markdownService), nil
}
