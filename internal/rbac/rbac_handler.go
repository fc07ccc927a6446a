package rbac

import (
	"net/http"
	"strings"

	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/contextutil"
	"go-staffhub/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Enforce answers a permission question for an arbitrary role.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}

	allowed := h.service.Allowed(
		strings.TrimSpace(req.Role),
		strings.TrimSpace(req.Resource),
		strings.TrimSpace(req.Action),
	)
	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

// Me lists the caller's own effective permissions.
func (h *Handler) Me(c *gin.Context) {
	actor, ok := contextutil.GetActor(c.Request.Context())
	if !ok {
		e := apperror.ErrUnauthorized
		response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, PermissionsResponse{
		Role:        actor.Role,
		Permissions: h.service.Permissions(actor.Role),
	}, nil)
}
