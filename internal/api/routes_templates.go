package api

import (
	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/handlers"
	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
)

func registerTemplateRoutes(api *gin.RouterGroup, cacheService *cache.Service, templates *services.TemplateService) {
	handler := handlers.NewTemplateHandler(templates)

	listCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "templates",
		Class:    "list",
		Strategy: middleware.CacheFirst,
	})
	itemCache := middleware.RequestCache(cacheService, middleware.CacheOptions{
		Resource: "templates",
		Class:    "item",
		Strategy: middleware.CacheFirst,
	})
	invalidate := middleware.InvalidateCache(cacheService, "templates")

	group := api.Group("/templates")
	{
		group.GET("", listCache, handler.List)
		group.GET("/:id", itemCache, handler.Get)
		group.POST("", invalidate, handler.Create)
		group.PATCH("/:id", invalidate, handler.Update)
		group.DELETE("/:id", invalidate, handler.Delete)
	}
}
