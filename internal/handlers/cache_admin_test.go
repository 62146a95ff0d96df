package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/trackit-app/trackit/internal/cache"
)

func newCacheAdminRouter(t *testing.T) (*gin.Engine, *cache.Service) {
	t.Helper()

	db := newHandlerTestDB(t)
	svc := cache.NewService(cache.NewDatabaseStore(db), cache.TTLPolicy{Default: 5 * time.Minute})

	handler := NewCacheAdminHandler(svc)

	r := gin.New()
	r.GET("/api/cache/metrics", handler.Metrics)
	r.DELETE("/api/cache", handler.FlushAll)
	r.DELETE("/api/cache/pattern", handler.FlushPattern)
	r.DELETE("/api/cache/resource/:type", handler.FlushResource)
	return r, svc
}

func seedCacheEntries(t *testing.T, svc *cache.Service) {
	t.Helper()
	ctx := context.Background()

	require.True(t, svc.SetRaw(ctx, cache.QueryKey("tasks", "list", "all"), []byte(`[]`), time.Minute))
	require.True(t, svc.SetRaw(ctx, cache.QueryKey("tasks", "item", "42"), []byte(`{}`), time.Minute))
	require.True(t, svc.SetRaw(ctx, cache.QueryKey("templates", "list", "all"), []byte(`[]`), time.Minute))
}

func TestCacheAdminFlushResource(t *testing.T) {
	r, svc := newCacheAdminRouter(t)
	seedCacheEntries(t, svc)

	rec := performJSON(t, r, http.MethodDelete, "/api/cache/resource/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Resource string `json:"resource"`
		Removed  int64  `json:"removed"`
	}
	dataInto(t, parseEnvelope(t, rec), &result)
	require.Equal(t, "tasks", result.Resource)
	require.Equal(t, int64(2), result.Removed)

	ctx := context.Background()
	require.False(t, svc.Exists(ctx, cache.QueryKey("tasks", "list", "all")))
	require.True(t, svc.Exists(ctx, cache.QueryKey("templates", "list", "all")))
}

func TestCacheAdminFlushAll(t *testing.T) {
	r, svc := newCacheAdminRouter(t)
	seedCacheEntries(t, svc)

	rec := performJSON(t, r, http.MethodDelete, "/api/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Removed int64 `json:"removed"`
	}
	dataInto(t, parseEnvelope(t, rec), &result)
	require.Equal(t, int64(3), result.Removed)
}

func TestCacheAdminFlushPatternRequiresParam(t *testing.T) {
	r, _ := newCacheAdminRouter(t)

	rec := performJSON(t, r, http.MethodDelete, "/api/cache/pattern", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(t, r, http.MethodDelete, "/api/cache/pattern?pattern=q:v1:tasks:*", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheAdminMetrics(t *testing.T) {
	r, svc := newCacheAdminRouter(t)
	seedCacheEntries(t, svc)

	// Record a hit and a miss so the counters carry data.
	var out []string
	require.Equal(t, cache.Hit, svc.Get(context.Background(), cache.QueryKey("tasks", "list", "all"), &out))
	require.Equal(t, cache.Miss, svc.Get(context.Background(), cache.QueryKey("tasks", "list", "other"), &out))

	rec := performJSON(t, r, http.MethodGet, "/api/cache/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Enabled bool `json:"enabled"`
		Process struct {
			Hits   int64 `json:"hits"`
			Misses int64 `json:"misses"`
		} `json:"process"`
		HitRate float64 `json:"hit_rate"`
	}
	dataInto(t, parseEnvelope(t, rec), &payload)
	require.True(t, payload.Enabled)
	require.Equal(t, int64(1), payload.Process.Hits)
	require.Equal(t, int64(1), payload.Process.Misses)
	require.InDelta(t, 0.5, payload.HitRate, 0.001)
}
