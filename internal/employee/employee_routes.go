package employee

import (
	"go-staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authn gin.HandlerFunc,
	gate middleware.PermissionChecker,
) {
	employees := r.Group("/employees")
	employees.Use(authn)
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(gate, "employee", "read"),
			handler.GetAll,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RequirePermission(gate, "employee", "read"),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequirePermission(gate, "employee", "create"),
			handler.Create,
		)

		employees.PATCH("/:id/active",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequirePermission(gate, "employee", "update"),
			handler.SetActive,
		)
	}
}
