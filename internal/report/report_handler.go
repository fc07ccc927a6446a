package report

import (
	"fmt"
	"net/http"

	"go-staffhub/internal/middleware"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	gate    middleware.PermissionChecker
	logger  *zap.Logger
}

func NewHandler(service Service, gate middleware.PermissionChecker, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, gate: gate, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// target picks the employee to report on; reports about others need
// report:read_all.
func (h *Handler) target(c *gin.Context) (string, bool) {
	self := c.GetString("employee_id")
	want := c.Query("employee_id")
	if want == "" || want == self {
		return self, true
	}
	if h.gate == nil || !h.gate.Allowed(c.GetString("role"), "report", "read_all") {
		h.writeServiceError(c, apperror.ErrForbidden)
		return "", false
	}
	if _, err := uuid.Parse(want); err != nil {
		h.writeServiceError(c, apperror.InvalidField("employee_id"))
		return "", false
	}
	return want, true
}

func (h *Handler) Summary(c *gin.Context) {
	employeeID, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.service.MonthlySummary(c.Request.Context(), employeeID, c.Query("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Calendar(c *gin.Context) {
	employeeID, ok := h.target(c)
	if !ok {
		return
	}
	resp, err := h.service.Calendar(c.Request.Context(), employeeID, c.Query("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	employeeID, ok := h.target(c)
	if !ok {
		return
	}
	month := c.Query("month")
	body, err := h.service.ExportMonthXLSX(c.Request.Context(), employeeID, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if month == "" {
		month = "current"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.xlsx"`, month))
	c.Data(http.StatusOK, xlsxContentType, body)
}
