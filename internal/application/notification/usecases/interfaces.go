package usecases

import (
	"context"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	vo "github.com/orris-inc/notifyd/internal/domain/notification/valueobjects"
)

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RecipientResolver turns a target specification into a deduplicated, ascending
// list of active user ids.
type RecipientResolver interface {
	Resolve(ctx context.Context, target vo.TargetSpec) ([]uint, error)
}

// DeliveryEventPublisher fans domain events out to realtime subscribers.
// Publishing is best-effort: callers log failures and carry on.
type DeliveryEventPublisher interface {
	PublishDelivered(ctx context.Context, event notification.DeliveredEvent) error
	PublishRead(ctx context.Context, event notification.ReadEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishDelivered(context.Context, notification.DeliveredEvent) error { return nil }
func (noopPublisher) PublishRead(context.Context, notification.ReadEvent) error           { return nil }

func publisherOrNoop(p DeliveryEventPublisher) DeliveryEventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
