package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/pkg/errors"
	"github.com/trackit-app/trackit/pkg/response"
)

// CacheAdminHandler exposes operational endpoints for inspecting and flushing
// the request cache.
type CacheAdminHandler struct {
	service *cache.Service
}

// NewCacheAdminHandler constructs a cache admin handler.
func NewCacheAdminHandler(service *cache.Service) *CacheAdminHandler {
	return &CacheAdminHandler{service: service}
}

// DELETE /api/cache
func (h *CacheAdminHandler) FlushAll(c *gin.Context) {
	removed := h.service.FlushAll(requestContext(c))
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

// DELETE /api/cache/pattern?pattern=tasks:*
func (h *CacheAdminHandler) FlushPattern(c *gin.Context) {
	pattern := strings.TrimSpace(c.Query("pattern"))
	if pattern == "" {
		response.Error(c, errors.NewBadRequest("pattern query parameter is required"))
		return
	}

	removed := h.service.DeleteByPattern(requestContext(c), pattern)
	response.Success(c, http.StatusOK, gin.H{"removed": removed})
}

// DELETE /api/cache/resource/:type
func (h *CacheAdminHandler) FlushResource(c *gin.Context) {
	resource := strings.TrimSpace(c.Param("type"))
	if resource == "" {
		response.Error(c, errors.NewBadRequest("resource type is required"))
		return
	}

	removed := h.service.FlushResource(requestContext(c), resource)
	response.Success(c, http.StatusOK, gin.H{"resource": resource, "removed": removed})
}

// GET /api/cache/metrics
func (h *CacheAdminHandler) Metrics(c *gin.Context) {
	snapshot := h.service.Counters().Snapshot()
	payload := gin.H{
		"enabled":  h.service.Enabled(),
		"process":  snapshot,
		"hit_rate": snapshot.HitRatio(),
	}

	if h.service.Enabled() {
		if stats, err := h.service.Stats(requestContext(c)); err == nil {
			payload["store"] = stats
			payload["store_hit_rate"] = stats.HitRatio()
		}
	}

	response.Success(c, http.StatusOK, payload)
}
