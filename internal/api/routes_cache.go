package api

import (
	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/handlers"
)

func registerCacheRoutes(api *gin.RouterGroup, cacheService *cache.Service) {
	handler := handlers.NewCacheAdminHandler(cacheService)

	group := api.Group("/cache")
	{
		group.GET("/metrics", handler.Metrics)
		group.DELETE("", handler.FlushAll)
		group.DELETE("/pattern", handler.FlushPattern)
		group.DELETE("/resource/:type", handler.FlushResource)
	}
}
