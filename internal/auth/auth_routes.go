package auth

import (
	"go-staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the legacy surface under /api/employee.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, tokenAuth gin.HandlerFunc) {
	legacy := r.Group("/employee")
	{
		legacy.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		legacy.GET("/me", tokenAuth, middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
