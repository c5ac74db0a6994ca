package http

import (
	"context"

	"github.com/orris-inc/notifyd/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	notificationHandler *handlers.NotificationHandler
	streamHandler       *handlers.StreamHandler
	healthHandler       *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	pingers := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		pingers["redis"] = func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}
	}

	c.hdlrs = &allHandlers{
		notificationHandler: handlers.NewNotificationHandler(c.notificationService, c.log),
		streamHandler:       handlers.NewStreamHandler(c.registry, c.log),
		healthHandler:       handlers.NewHealthHandler(pingers, c.log),
	}
}
