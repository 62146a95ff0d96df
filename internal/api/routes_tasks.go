package api

import (
	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/handlers"
	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
)

func registerTaskRoutes(api *gin.RouterGroup, cacheService *cache.Service, tasks *services.TaskService) {
	handler := handlers.NewTaskHandler(tasks)

	// List and search responses depend on the caller (mine=true filters by
	// the authenticated user), so their keys are scoped per user.
	listCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "tasks",
		Class:    "list",
		Strategy: middleware.CacheFirst,
		PerUser:  true,
	})
	itemCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "tasks",
		Class:    "item",
		Strategy: middleware.CacheFirst,
	})
	searchCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "tasks",
		Class:    "search",
		Strategy: middleware.CacheFirst,
		PerUser:  true,
	})
	// Deleting a task also deletes its comment thread, so both resources flush.
	invalidate := middleware.InvalidateCache(cacheService, "tasks", "comments")

	group := api.Group("/tasks")
	{
		group.GET("", listCache, handler.List)
		group.GET("/search", searchCache, handler.List)
		group.GET("/:id", itemCache, handler.Get)
		group.POST("", invalidate, handler.Create)
		group.PATCH("/:id", invalidate, handler.Update)
		group.DELETE("/:id", invalidate, handler.Delete)
	}
}
