package middleware

import (
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionChecker is satisfied by the authorization gate.
type PermissionChecker interface {
	Allowed(role, resource, action string) bool
}

// RequirePermission rejects the request with 403 before the handler runs
// when the actor's role lacks resource:action.
func RequirePermission(gate PermissionChecker, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		actor, ok := contextutil.GetActor(ctx)
		if !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		if !gate.Allowed(actor.Role, resource, action) {
			contextutil.GetLogger(ctx, zap.L()).Info("permission denied",
				zap.String("role", actor.Role),
				zap.String("required", resource+":"+action),
			)
			abortWith(c, apperror.ErrForbidden.WithDetails(gin.H{"required": resource + ":" + action}))
			return
		}
		c.Next()
	}
}
