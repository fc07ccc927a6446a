package auth

import (
	"errors"
	"net/http"

	"go-staffhub/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the legacy employee endpoints. Their bodies are plain JSON
// objects, never the API envelope.
type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeLegacyError(c *gin.Context, err error, fallback string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError {
		c.JSON(appErr.HTTPStatus, gin.H{"message": appErr.Message})
		return
	}
	h.logger.Error("legacy request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	// A malformed body is treated like missing credentials.
	_ = c.ShouldBindJSON(&req)

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeLegacyError(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c *gin.Context) {
	resp, err := h.service.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeLegacyError(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, resp)
}
