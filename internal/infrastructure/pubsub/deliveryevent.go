package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/goroutine"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils/logutil"
)

// DefaultDeliveryChannel is used when no channel is configured.
const DefaultDeliveryChannel = "notifyd:deliveries"

// DeliveryEventType represents the type of delivery event.
type DeliveryEventType string

const (
	DeliveryEventDelivered DeliveryEventType = "delivered"
	DeliveryEventRead      DeliveryEventType = "read"
)

// DeliveryEvent is the cross-instance form of the notification domain events.
type DeliveryEvent struct {
	Type            DeliveryEventType `json:"type"`
	NotificationID  uint              `json:"notification_id,omitempty"`
	UserIDs         []uint            `json:"user_ids,omitempty"`
	NotificationIDs []uint            `json:"notification_ids,omitempty"`
	UpdatedCount    int64             `json:"updated_count,omitempty"`
	Timestamp       int64             `json:"timestamp"`
	InstanceID      string            `json:"instance_id,omitempty"`
}

// DeliveryEventHandler receives events. It must not block.
type DeliveryEventHandler func(event DeliveryEvent)

// DeliveryEventBus publishes notification domain events and lets the realtime
// registry subscribe to them.
type DeliveryEventBus interface {
	PublishDelivered(ctx context.Context, event notification.DeliveredEvent) error
	PublishRead(ctx context.Context, event notification.ReadEvent) error
	// Subscribe blocks until ctx is done, invoking handler for every event.
	Subscribe(ctx context.Context, handler DeliveryEventHandler) error
}

func fromDelivered(e notification.DeliveredEvent) DeliveryEvent {
	return DeliveryEvent{
		Type:           DeliveryEventDelivered,
		NotificationID: e.NotificationID,
		UserIDs:        e.UserIDs,
		Timestamp:      timestamp(e.DeliveredAt),
	}
}

func fromRead(e notification.ReadEvent) DeliveryEvent {
	return DeliveryEvent{
		Type:            DeliveryEventRead,
		UserIDs:         []uint{e.UserID},
		NotificationIDs: e.NotificationIDs,
		UpdatedCount:    e.UpdatedCount,
		Timestamp:       timestamp(e.ReadAt),
	}
}

func timestamp(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().UTC().Unix()
	}
	return t.Unix()
}

// LocalDeliveryEventBus delivers events to subscribers in the same process.
type LocalDeliveryEventBus struct {
	mu       sync.RWMutex
	handlers map[uint64]DeliveryEventHandler
	nextID   uint64
	logger   logger.Interface
}

func NewLocalDeliveryEventBus(logger logger.Interface) *LocalDeliveryEventBus {
	return &LocalDeliveryEventBus{
		handlers: make(map[uint64]DeliveryEventHandler),
		logger:   logger,
	}
}

func (b *LocalDeliveryEventBus) PublishDelivered(ctx context.Context, event notification.DeliveredEvent) error {
	b.dispatch(fromDelivered(event))
	return nil
}

func (b *LocalDeliveryEventBus) PublishRead(ctx context.Context, event notification.ReadEvent) error {
	b.dispatch(fromRead(event))
	return nil
}

func (b *LocalDeliveryEventBus) Subscribe(ctx context.Context, handler DeliveryEventHandler) error {
	id := b.register(handler)
	defer b.unregister(id)

	<-ctx.Done()
	return ctx.Err()
}

func (b *LocalDeliveryEventBus) register(handler DeliveryEventHandler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[b.nextID] = handler
	return b.nextID
}

func (b *LocalDeliveryEventBus) unregister(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
}

func (b *LocalDeliveryEventBus) dispatch(event DeliveryEvent) {
	b.mu.RLock()
	handlers := make([]DeliveryEventHandler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.safeHandle(h, event)
	}
}

func (b *LocalDeliveryEventBus) safeHandle(h DeliveryEventHandler, event DeliveryEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorw("delivery event handler panicked", "type", event.Type, "panic", fmt.Sprintf("%v", r))
		}
	}()
	h(event)
}

// RedisDeliveryEventBus relays events to every notifyd instance through Redis
// Pub/Sub. Local subscribers are served directly; events coming back from Redis
// that this instance published are skipped.
type RedisDeliveryEventBus struct {
	client     *redis.Client
	channel    string
	local      *LocalDeliveryEventBus
	logger     logger.Interface
	instanceID string
}

func NewRedisDeliveryEventBus(client *redis.Client, channel string, logger logger.Interface) *RedisDeliveryEventBus {
	if channel == "" {
		channel = DefaultDeliveryChannel
	}
	return &RedisDeliveryEventBus{
		client:     client,
		channel:    channel,
		local:      NewLocalDeliveryEventBus(logger),
		logger:     logger,
		instanceID: uuid.NewString(),
	}
}

func (b *RedisDeliveryEventBus) PublishDelivered(ctx context.Context, event notification.DeliveredEvent) error {
	return b.publish(ctx, fromDelivered(event))
}

func (b *RedisDeliveryEventBus) PublishRead(ctx context.Context, event notification.ReadEvent) error {
	return b.publish(ctx, fromRead(event))
}

func (b *RedisDeliveryEventBus) publish(ctx context.Context, event DeliveryEvent) error {
	event.InstanceID = b.instanceID
	b.local.dispatch(event)

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish delivery event",
			"event_type", event.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish delivery event: %w", err)
	}

	b.logger.Debugw("delivery event published to Redis",
		"event_type", event.Type,
		"notification_id", event.NotificationID,
	)
	return nil
}

// Subscribe serves local events and remote events from other instances until ctx is done.
func (b *RedisDeliveryEventBus) Subscribe(ctx context.Context, handler DeliveryEventHandler) error {
	id := b.local.register(handler)
	defer b.local.unregister(id)

	return b.subscribeWithReconnect(ctx, func(payload string) {
		b.handlePayload(payload, handler)
	})
}

func (b *RedisDeliveryEventBus) handlePayload(payload string, handler DeliveryEventHandler) {
	var event DeliveryEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		b.logger.Warnw("failed to unmarshal delivery event",
			"payload", logutil.TruncateForLog(payload, 200),
			"error", err,
		)
		return
	}

	// Already dispatched locally at publish time.
	if event.InstanceID == b.instanceID {
		return
	}

	handler(event)
}

const (
	reconnectInitialInterval = time.Second
	reconnectMaxInterval     = 30 * time.Second
)

func newReconnectBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = reconnectInitialInterval
	b.MaxInterval = reconnectMaxInterval
	b.Reset()
	return b
}

// subscribeWithReconnect wraps subscribe with automatic reconnection and exponential backoff.
func (b *RedisDeliveryEventBus) subscribeWithReconnect(ctx context.Context, handler func(payload string)) error {
	expBackoff := newReconnectBackOff()

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := expBackoff.NextBackOff()
		b.logger.Warnw("delivery event subscription disconnected, reconnecting",
			"channel", b.channel,
			"error", err,
			"backoff", wait,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (b *RedisDeliveryEventBus) subscribe(ctx context.Context, handler func(payload string)) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	b.logger.Infow("subscribed to delivery event channel", "channel", b.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("delivery event subscriber stopped",
				"channel", b.channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("delivery event channel closed", "channel", b.channel)
				return nil
			}

			goroutine.SafeGo(b.logger, "delivery-event-handler", func() {
				handler(msg.Payload)
			})
		}
	}
}
