package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/pkg/response"
)

// Health returns a status payload covering the database and cache store.
// The endpoint answers 200 as long as the process is serving; degraded
// dependencies are reported in the body for monitoring to act on.
func Health(db *gorm.DB, cacheService *cache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := gin.H{"status": "ok"}

		dbStatus := "ok"
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(requestContext(c)) != nil {
				dbStatus = "down"
			}
		} else {
			dbStatus = "down"
		}
		payload["database"] = dbStatus

		cacheStatus := "disabled"
		if cacheService.Enabled() {
			cacheStatus = "ok"
			if err := cacheService.Ping(requestContext(c)); err != nil {
				cacheStatus = "down"
			}
		}
		payload["cache"] = cacheStatus

		if dbStatus != "ok" {
			payload["status"] = "degraded"
		}

		response.Success(c, http.StatusOK, payload)
	}
}
