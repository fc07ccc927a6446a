package leave

import (
	"go-staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the workflow. Decide is gated by the service as well
// as here, so a denied caller never reads the request.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authn gin.HandlerFunc,
	gate middleware.PermissionChecker,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave-requests")
	leaves.Use(authn, middleware.RequirePermission(gate, "leave", "submit"))
	{
		leaves.GET("", handler.GetAll)
		leaves.GET("/:id", handler.GetByID)
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.POST("/:id/decision",
			middleware.RequirePermission(gate, "leave", "decide"),
			handler.Decide,
		)
		leaves.POST("/:id/cancel", handler.Cancel)
		leaves.GET("/:id/messages", handler.GetMessages)
		leaves.POST("/:id/messages",
			middleware.RateLimitByUser(1, 5),
			handler.PostMessage,
		)
	}
}
