package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/database/testutil"
)

func newCacheTestService(t *testing.T) *cache.Service {
	t.Helper()
	store := cache.NewDatabaseStore(testutil.MustOpenTestDB(t, testutil.WithAutoMigrate()))
	return cache.NewService(store, cache.TTLPolicy{
		Default: 5 * time.Minute,
		Item:    10 * time.Minute,
		List:    time.Minute,
		Search:  30 * time.Second,
	})
}

func performRequest(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestCacheCacheFirstServesSecondRequestFromCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	calls := 0
	router := gin.New()
	router.GET("/api/tasks",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "list", Strategy: CacheFirst}),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"success": true, "data": []string{"a"}})
		},
	)

	first := performRequest(router, http.MethodGet, "/api/tasks")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	require.Equal(t, 1, calls)

	second := performRequest(router, http.MethodGet, "/api/tasks")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))
	require.Equal(t, 1, calls, "handler must not run on a cache hit")
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestRequestCacheDistinguishesQueryParameters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	router := gin.New()
	router.GET("/api/tasks",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "list", Strategy: CacheFirst}),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": c.Query("status")})
		},
	)

	todo := performRequest(router, http.MethodGet, "/api/tasks?status=todo")
	done := performRequest(router, http.MethodGet, "/api/tasks?status=done")
	require.NotEqual(t, todo.Body.String(), done.Body.String())

	// Parameter order must not matter.
	a := performRequest(router, http.MethodGet, "/api/tasks?status=todo&limit=5")
	b := performRequest(router, http.MethodGet, "/api/tasks?limit=5&status=todo")
	require.Equal(t, "HIT", b.Header().Get("X-Cache"))
	require.JSONEq(t, a.Body.String(), b.Body.String())
}

func TestRequestCacheSkipsNonOKResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	calls := 0
	router := gin.New()
	router.GET("/api/tasks/missing",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "item", Strategy: CacheFirst}),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusNotFound, gin.H{"success": false})
		},
	)

	first := performRequest(router, http.MethodGet, "/api/tasks/missing")
	require.Equal(t, http.StatusNotFound, first.Code)

	second := performRequest(router, http.MethodGet, "/api/tasks/missing")
	require.Equal(t, http.StatusNotFound, second.Code)
	require.Equal(t, 2, calls, "error responses must not be cached")
}

func TestRequestCacheSkipsMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	router := gin.New()
	router.POST("/api/tasks",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "list", Strategy: CacheFirst}),
		func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		},
	)

	rec := performRequest(router, http.MethodPost, "/api/tasks")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Empty(t, rec.Header().Get("X-Cache"))
}

func TestRequestCacheNetworkFirstPrefersFreshResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	payload := "v1"
	router := gin.New()
	router.GET("/api/notifications",
		RequestCache(svc, CacheOptions{Resource: "notifications", Class: "list", Strategy: NetworkFirst}),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": payload})
		},
	)

	first := performRequest(router, http.MethodGet, "/api/notifications")
	require.Contains(t, first.Body.String(), "v1")

	// Network-first must surface the new value even though v1 is cached.
	payload = "v2"
	second := performRequest(router, http.MethodGet, "/api/notifications")
	require.Contains(t, second.Body.String(), "v2")
}

func TestRequestCacheNetworkFirstFallsBackOnFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	fail := false
	router := gin.New()
	router.GET("/api/notifications",
		RequestCache(svc, CacheOptions{Resource: "notifications", Class: "list", Strategy: NetworkFirst}),
		func(c *gin.Context) {
			if fail {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": "cached"})
		},
	)

	seeded := performRequest(router, http.MethodGet, "/api/notifications")
	require.Equal(t, http.StatusOK, seeded.Code)

	fail = true
	fallback := performRequest(router, http.MethodGet, "/api/notifications")
	require.Equal(t, http.StatusOK, fallback.Code)
	require.Equal(t, "STALE", fallback.Header().Get("X-Cache"))
	require.Contains(t, fallback.Body.String(), "cached")
}

func TestRequestCacheNetworkFirstFailureWithoutCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	router := gin.New()
	router.GET("/api/notifications",
		RequestCache(svc, CacheOptions{Resource: "notifications", Class: "list", Strategy: NetworkFirst}),
		func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
		},
	)

	rec := performRequest(router, http.MethodGet, "/api/notifications")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestCachePerUserScoping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	user := "user-a"
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set(CtxUserIDKey, user) })
	router.GET("/api/notifications",
		RequestCache(svc, CacheOptions{Resource: "notifications", Class: "list", Strategy: CacheFirst, PerUser: true}),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user": UserID(c)})
		},
	)

	first := performRequest(router, http.MethodGet, "/api/notifications")
	require.Contains(t, first.Body.String(), "user-a")

	user = "user-b"
	second := performRequest(router, http.MethodGet, "/api/notifications")
	require.Equal(t, "MISS", second.Header().Get("X-Cache"))
	require.Contains(t, second.Body.String(), "user-b")
}

func TestInvalidateCacheFlushesResourceAfterMutation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	calls := 0
	router := gin.New()
	router.GET("/api/tasks",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "list", Strategy: CacheFirst}),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"calls": calls})
		},
	)
	router.POST("/api/tasks",
		InvalidateCache(svc, "tasks"),
		func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true})
		},
	)

	performRequest(router, http.MethodGet, "/api/tasks")
	require.Equal(t, "HIT", performRequest(router, http.MethodGet, "/api/tasks").Header().Get("X-Cache"))

	performRequest(router, http.MethodPost, "/api/tasks")

	refreshed := performRequest(router, http.MethodGet, "/api/tasks")
	require.Equal(t, "MISS", refreshed.Header().Get("X-Cache"))
	require.Equal(t, 2, calls)
}

func TestInvalidateCacheSkipsFailedMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newCacheTestService(t)

	router := gin.New()
	router.GET("/api/tasks",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "list", Strategy: CacheFirst}),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)
	router.POST("/api/tasks",
		InvalidateCache(svc, "tasks"),
		func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
		},
	)

	performRequest(router, http.MethodGet, "/api/tasks")
	performRequest(router, http.MethodPost, "/api/tasks")

	require.Equal(t, "HIT", performRequest(router, http.MethodGet, "/api/tasks").Header().Get("X-Cache"))
}

func TestRequestCacheDisabledServicePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := cache.NewService(nil, cache.TTLPolicy{})

	calls := 0
	router := gin.New()
	router.GET("/api/tasks",
		RequestCache(svc, CacheOptions{Resource: "tasks", Class: "list", Strategy: CacheFirst}),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusOK, gin.H{"success": true})
		},
	)

	performRequest(router, http.MethodGet, "/api/tasks")
	performRequest(router, http.MethodGet, "/api/tasks")
	require.Equal(t, 2, calls)
}
