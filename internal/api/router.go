package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/trackit-app/trackit/internal/app"
	iauth "github.com/trackit-app/trackit/internal/auth"
	"github.com/trackit-app/trackit/internal/cache"
	"github.com/trackit-app/trackit/internal/handlers"
	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/realtime"
	"github.com/trackit-app/trackit/internal/services"
)

// Deps bundles the shared components the router wires together.
type Deps struct {
	DB     *gorm.DB
	JWT    *iauth.JWTService
	Cache  *cache.Service
	Hub    *realtime.Hub
	Config *app.Config
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewService(nil, cache.TTLPolicy{})
	}

	users, err := services.NewUserService(deps.DB)
	if err != nil {
		return nil, err
	}
	templates, err := services.NewTemplateService(deps.DB)
	if err != nil {
		return nil, err
	}
	notifications, err := services.NewNotificationService(deps.DB, deps.Hub)
	if err != nil {
		return nil, err
	}
	tasks, err := services.NewTaskService(deps.DB, templates, notifications)
	if err != nil {
		return nil, err
	}
	comments, err := services.NewCommentService(deps.DB, tasks, notifications)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	rateStore := middleware.NewStoreRateStore(deps.Cache.Store())
	if rateStore == nil {
		rateStore = middleware.NewMemoryRateStore()
	}
	// Basic rate limiting: 300 requests/minute per IP+path
	r.Use(middleware.RateLimit(rateStore, 300, time.Minute))

	// Health endpoint (public)
	if deps.Config == nil || deps.Config.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(deps.DB, deps.Cache))
	}

	if deps.Config != nil && deps.Config.Monitoring.Prometheus.Enabled {
		endpoint := deps.Config.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	requireAuth := middleware.Auth(deps.JWT)

	registerAuthRoutes(r, requireAuth, rateStore, users, deps.JWT)

	api := r.Group("/api")
	api.Use(requireAuth)

	registerTaskRoutes(api, deps.Cache, tasks)
	registerTemplateRoutes(api, deps.Cache, templates)
	registerCommentRoutes(api, deps.Cache, comments)
	registerNotificationRoutes(api, deps.Cache, notifications, deps.Hub)
	registerCacheRoutes(api, deps.Cache)

	return r, nil
}
