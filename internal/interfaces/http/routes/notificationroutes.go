package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/infrastructure/permission"
	"github.com/orris-inc/notifyd/internal/interfaces/http/handlers"
	"github.com/orris-inc/notifyd/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	NotificationHandler  *handlers.NotificationHandler
	StreamHandler        *handlers.StreamHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	// RateLimiter is optional; producer endpoints are unlimited without it.
	RateLimiter *middleware.RateLimiter
}

func SetupNotificationRoutes(engine *gin.Engine, config *NotificationRouteConfig) {
	notifications := engine.Group("/notifications")

	// EventSource cannot set headers, so the stream alone takes a query token.
	notifications.GET("/stream",
		config.AuthMiddleware.RequireAuth(middleware.AllowQueryToken()),
		config.StreamHandler.Stream)

	notifications = notifications.Group("", config.AuthMiddleware.RequireAuth())
	{
		// Recipient feed
		notifications.GET("", config.NotificationHandler.ListNotifications)
		notifications.GET("/unread", config.NotificationHandler.ListUnread)
		notifications.GET("/unread-count", config.NotificationHandler.GetUnreadCount)
		notifications.POST("/read", config.NotificationHandler.MarkRead)
		notifications.POST("/read-all", config.NotificationHandler.MarkAllRead)

		// Producers
		create := []gin.HandlerFunc{
			config.PermissionMiddleware.RequirePermission(permission.ResourceNotifications, permission.ActionCreate),
		}
		if config.RateLimiter != nil {
			create = append(create, config.RateLimiter.Limit())
		}
		create = append(create, config.NotificationHandler.CreateNotification)
		notifications.POST("", create...)

		notifications.POST("/:id/dispatch",
			config.PermissionMiddleware.RequirePermission(permission.ResourceNotifications, permission.ActionDispatch),
			config.NotificationHandler.DispatchNotification)
	}
}
