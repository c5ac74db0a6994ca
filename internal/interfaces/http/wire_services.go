package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	notificationApp "github.com/orris-inc/notifyd/internal/application/notification"
	userApp "github.com/orris-inc/notifyd/internal/application/user"
	"github.com/orris-inc/notifyd/internal/infrastructure/auth"
	"github.com/orris-inc/notifyd/internal/infrastructure/permission"
	"github.com/orris-inc/notifyd/internal/infrastructure/pubsub"
	"github.com/orris-inc/notifyd/internal/infrastructure/ratelimit"
	"github.com/orris-inc/notifyd/internal/infrastructure/realtime"
	"github.com/orris-inc/notifyd/internal/interfaces/http/middleware"
	"github.com/orris-inc/notifyd/internal/shared/services/markdown"
)

const redisPingTimeout = 5 * time.Second

// initInfrastructure sets up Redis (when enabled), the delivery event bus,
// repositories and the realtime registry.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.repos = newRepositories(c.db, cfg.Delivery.BatchSize)

	if cfg.Redis.Enabled {
		client, err := newRedisClient(cfg.Redis.GetAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		c.redis = client
		log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

		channel := cfg.Redis.Channel
		if channel == "" {
			channel = pubsub.DefaultDeliveryChannel
		}
		c.eventBus = pubsub.NewRedisDeliveryEventBus(client, channel, log)
	} else {
		log.Infow("Redis disabled, delivery events stay in-process")
		c.eventBus = pubsub.NewLocalDeliveryEventBus(log)
	}

	c.registry = realtime.NewRegistry(log, &realtime.RegistryConfig{
		MaxConnsPerUser: cfg.Delivery.MaxStreamConnsPerUser,
	})
	c.bridge = realtime.NewBridge(c.eventBus, c.registry, log)

	return nil
}

func newRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// initServices builds auth, permissions and the application services.
func (c *Container) initServices() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	enforcer, err := permission.NewEnforcer(c.db, log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := permission.InitNotificationPermissions(enforcer, log); err != nil {
		return fmt.Errorf("failed to seed notification permissions: %w", err)
	}
	c.enforcer = enforcer

	c.notificationService = notificationApp.NewServiceDDD(
		repos.notificationRepo,
		repos.deliveryRepo,
		repos.userRepo,
		repos.txManager,
		c.eventBus,
		markdown.NewMarkdownService(),
		cfg.Delivery.MaxMarkReadIDs,
		log,
	)
	c.userService = userApp.NewServiceDDD(repos.userRepo, log)

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, log)
	if c.redis != nil && cfg.Delivery.ProducerRateLimit > 0 {
		c.rateLimiter = middleware.NewRateLimiter(
			ratelimit.NewRedisRateLimiter(c.redis),
			cfg.Delivery.ProducerRateLimit,
			time.Minute,
			log,
		)
	}

	return nil
}
