package api

import (
	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/handlers"
	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
)

func registerCommentRoutes(api *gin.RouterGroup, cacheService *cache.Service, comments *services.CommentService) {
	handler := handlers.NewCommentHandler(comments)

	threadCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "comments",
		Class:    "list",
		Strategy: middleware.CacheFirst,
	})
	invalidate := middleware.InvalidateCache(cacheService, "comments")

	api.GET("/tasks/:id/comments", threadCache, handler.ListForTask)
	api.POST("/tasks/:id/comments", invalidate, handler.Create)
	api.DELETE("/comments/:id", invalidate, handler.Delete)
}
