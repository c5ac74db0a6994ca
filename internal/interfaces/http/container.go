package http

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	notificationApp "github.com/orris-inc/notifyd/internal/application/notification"
	userApp "github.com/orris-inc/notifyd/internal/application/user"
	"github.com/orris-inc/notifyd/internal/infrastructure/auth"
	"github.com/orris-inc/notifyd/internal/infrastructure/config"
	"github.com/orris-inc/notifyd/internal/infrastructure/permission"
	"github.com/orris-inc/notifyd/internal/infrastructure/pubsub"
	"github.com/orris-inc/notifyd/internal/infrastructure/realtime"
	"github.com/orris-inc/notifyd/internal/interfaces/http/middleware"
	"github.com/orris-inc/notifyd/internal/shared/goroutine"
	"github.com/orris-inc/notifyd/internal/shared/logger"
)

const bridgeStopTimeout = 5 * time.Second

// Container holds infrastructure, services, handlers and background workers.
// It wires everything together and owns their shutdown.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	hdlrs *allHandlers

	// Application services
	notificationService *notificationApp.ServiceDDD
	userService         *userApp.ServiceDDD

	// Auth & permissions
	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	// Realtime hint path: service -> event bus -> bridge -> registry -> SSE
	eventBus       pubsub.DeliveryEventBus
	registry       *realtime.Registry
	bridge         *realtime.Bridge
	bridgeCancel   context.CancelFunc
	bridgeDone     <-chan struct{}
	bridgeCancelMu sync.Mutex
	shutdownOnce   sync.Once
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.initHandlers()

	return c, nil
}

// Start launches background workers. Call once before serving traffic.
func (c *Container) Start() {
	c.registry.Start()

	ctx, cancel := context.WithCancel(context.Background())
	done := goroutine.SafeGo(c.log, "realtime-bridge", func() {
		if err := c.bridge.Run(ctx); err != nil && ctx.Err() == nil {
			c.log.Errorw("realtime bridge exited", "error", err)
		}
	})

	c.bridgeCancelMu.Lock()
	c.bridgeCancel = cancel
	c.bridgeDone = done
	c.bridgeCancelMu.Unlock()
}

// Shutdown stops background workers and closes every stream so the HTTP
// server can drain quickly. Safe to call multiple times.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(c.shutdown)
}

func (c *Container) shutdown() {
	c.bridgeCancelMu.Lock()
	cancel, done := c.bridgeCancel, c.bridgeDone
	c.bridgeCancel, c.bridgeDone = nil, nil
	c.bridgeCancelMu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-time.After(bridgeStopTimeout):
			c.log.Warnw("realtime bridge did not stop in time")
		}
	}

	c.registry.Stop()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

func (c *Container) NotificationService() *notificationApp.ServiceDDD {
	return c.notificationService
}

func (c *Container) UserService() *userApp.ServiceDDD {
	return c.userService
}

func (c *Container) JWTService() *auth.JWTService {
	return c.jwtSvc
}
