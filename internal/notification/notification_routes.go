package notification

import (
	"go-staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authn gin.HandlerFunc,
	gate middleware.PermissionChecker,
) {
	n := r.Group("/notifications")
	n.Use(authn, middleware.RequirePermission(gate, "notification", "read"))
	{
		n.GET("", h.List)
		n.POST("/:id/read", h.MarkRead)
	}
}
