package api

import (
	"time"

	"github.com/gin-gonic/gin"

	iauth "github.com/trackit-app/trackit/internal/auth"
	"github.com/trackit-app/trackit/internal/handlers"
	"github.com/trackit-app/trackit/internal/middleware"
	"github.com/trackit-app/trackit/internal/services"
)

func registerAuthRoutes(r *gin.Engine, requireAuth gin.HandlerFunc, rateStore middleware.RateStore, users *services.UserService, jwt *iauth.JWTService) {
	handler := handlers.NewAuthHandler(users, jwt)

	// Credential endpoints get a much tighter limit than the rest of the API.
	loginLimit := middleware.RateLimit(rateStore, 10, time.Minute)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", loginLimit, handler.Register)
		auth.POST("/login", loginLimit, handler.Login)
		auth.GET("/me", requireAuth, handler.Me)
	}
}
