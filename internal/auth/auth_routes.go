package auth

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		// Credential endpoints get a per-IP limiter to slow brute force
		authGroup.POST("/register", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Register)
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		authGroup.POST("/refresh", handler.Refresh)

		authGroup.GET("/me", middleware.AuthMiddleware(), handler.GetMe)
		authGroup.GET("/logout", middleware.AuthMiddleware(), handler.Logout)
	}
}
