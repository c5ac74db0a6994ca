package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/orris-inc/notifyd/internal/interfaces/http/middleware"
	"github.com/orris-inc/notifyd/internal/interfaces/http/routes"

	_ "github.com/orris-inc/notifyd/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	container *Container

	mu     sync.Mutex
	server *http.Server
}

func NewRouter(container *Container) *Router {
	return &Router{container: container}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	c := r.container
	engine := c.engine

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(c.log))
	engine.Use(middleware.Recovery(c.log))
	engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)

	routes.SetupNotificationRoutes(engine, &routes.NotificationRouteConfig{
		NotificationHandler:  c.hdlrs.notificationHandler,
		StreamHandler:        c.hdlrs.streamHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimiter:          c.rateLimiter,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.container.engine
}

// Run starts the HTTP server and blocks until it stops.
// A clean Shutdown returns nil.
func (r *Router) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.container.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	r.mu.Lock()
	r.server = srv
	r.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes realtime streams first, then drains in-flight requests.
func (r *Router) Shutdown(ctx context.Context) error {
	r.container.Shutdown()

	r.mu.Lock()
	srv := r.server
	r.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
