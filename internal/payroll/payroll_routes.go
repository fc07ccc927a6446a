package payroll

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
	payslips := r.Group("/payslips")
	payslips.Use(authn, middleware.RequirePermission(gate, "payslip", "self"))
	{
		payslips.GET("", handler.GetAll)
		payslips.GET("/:id", handler.GetByID)
		payslips.GET("/:id/pdf", middleware.RateLimitByUser(1, 5), handler.Download)
	}
}
