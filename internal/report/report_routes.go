package report

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
	reports := r.Group("/reports/attendance")
	reports.Use(authn, middleware.RequirePermission(gate, "attendance", "self"))
	{
		reports.GET("/summary", h.Summary)
		reports.GET("/calendar", h.Calendar)
		reports.GET("/export",
			middleware.RateLimitByUser(0.2, 2),
			h.Export,
		)
	}
}
