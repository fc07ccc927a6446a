package rbac

import (
	"go-staffhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn gin.HandlerFunc, service Service) {
	group := r.Group("/rbac")
	group.Use(authn)
	{
		group.GET("/me", handler.Me)
		group.POST("/enforce", middleware.RequirePermission(service, "role", "read"), handler.Enforce)
	}
}
