package realtime

import (
	"context"
	"fmt"

	"github.com/orris-inc/notifyd/internal/infrastructure/pubsub"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

const (
	EventNotificationDelivered = "notification:delivered"
	EventNotificationRead      = "notification:read"
)

// UserTopic is the topic a user's stream subscribes to.
func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

type broadcaster interface {
	Broadcast(topic string, event Event) int
}

// Bridge forwards delivery events from the bus to per-user topics.
type Bridge struct {
	bus      pubsub.DeliveryEventBus
	registry broadcaster
	logger   logger.Interface
}

func NewBridge(bus pubsub.DeliveryEventBus, registry *Registry, logger logger.Interface) *Bridge {
	return &Bridge{bus: bus, registry: registry, logger: logger}
}

// Run blocks until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Infow("realtime bridge started")
	return b.bus.Subscribe(ctx, b.handle)
}

func (b *Bridge) handle(event pubsub.DeliveryEvent) {
	var eventType string
	var data any
	switch event.Type {
	case pubsub.DeliveryEventDelivered:
		eventType = EventNotificationDelivered
		data = map[string]any{"notification_id": event.NotificationID}
	case pubsub.DeliveryEventRead:
		eventType = EventNotificationRead
		data = map[string]any{"notification_ids": event.NotificationIDs, "updated_count": event.UpdatedCount}
	default:
		b.logger.Debugw("ignoring unknown delivery event", "type", event.Type)
		return
	}

	for _, userID := range event.UserIDs {
		b.registry.Broadcast(UserTopic(userID), Event{
			Type:      eventType,
			Timestamp: event.Timestamp,
			Data:      data,
		})
	}
}
