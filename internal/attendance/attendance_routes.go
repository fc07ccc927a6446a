package attendance

import (
	"go-staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authn gin.HandlerFunc,
	gate middleware.PermissionChecker,
	rdb *redis.Client,
) {
	att := r.Group("/attendance")
	att.Use(authn, middleware.RequirePermission(gate, "attendance", "self"))
	{
		att.GET("", h.List)
		att.GET("/today", h.Today)
		att.GET("/present-count", h.PresentCount)
		att.POST("/check-in",
			middleware.RateLimitByUser(1, 3),
			middleware.Idempotency(rdb),
			h.CheckIn,
		)
		att.POST("/check-out",
			middleware.RateLimitByUser(1, 3),
			h.CheckOut,
		)
	}
}
