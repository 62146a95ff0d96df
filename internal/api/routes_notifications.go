package api

import (
	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/handlers"
	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/realtime"
	"github.com/trackit-app/trackit/internal/services"
)

func registerNotificationRoutes(api *gin.RouterGroup, cacheService *cache.Service, notifications *services.NotificationService, hub *realtime.Hub) {
	handler := handlers.NewNotificationHandler(notifications, hub)

	// Notifications favour freshness; the cache only papers over store outages.
	feedCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "notifications",
		Class:    "list",
		Strategy: middleware.NetworkFirst,
		PerUser:  true,
	})
	invalidate := middleware.InvalidateCache(cacheService, "notifications")

	group := api.Group("/notifications")
	{
		group.GET("", feedCache, handler.List)
		group.GET("/unread-count", handler.UnreadCount)
		group.GET("/stream", handler.Stream)
		group.POST("/:id/read", invalidate, handler.MarkRead)
		group.POST("/read-all", invalidate, handler.MarkAllRead)
		group.DELETE("/:id", invalidate, handler.Delete)
	}
}
