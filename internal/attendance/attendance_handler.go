package attendance

import (
	"net/http"
	"strconv"

	attendanceerrors "go-staffhub/internal/attendance/errors"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gate decides who may read other employees' attendance.
type Gate interface {
	CanViewAllAttendance(role string) bool
}

type Handler struct {
	service Service
	gate    Gate
	logger  *zap.Logger
}

func NewHandler(service Service, gate Gate, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, gate: gate, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// targetEmployee returns the employee whose data is requested. Anyone other
// than the caller needs attendance:read_all.
func (h *Handler) targetEmployee(c *gin.Context) (string, error) {
	self := c.GetString("employee_id")
	target := c.Query("employee_id")
	if target == "" || target == self {
		return self, nil
	}
	if h.gate == nil || !h.gate.CanViewAllAttendance(c.GetString("role")) {
		return "", attendanceerrors.ErrViewOthersForbidden
	}
	return target, nil
}

func (h *Handler) Today(c *gin.Context) {
	resp, err := h.service.GetToday(c.Request.Context(), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	resp, err := h.service.CheckIn(c.Request.Context(), c.GetString("employee_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), c.GetString("employee_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	employeeID, err := h.targetEmployee(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListForRange(c.Request.Context(), employeeID, c.Query("start"), c.Query("end"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	page, pageSize = response.NormalizePage(page, pageSize, 31)

	start, end := response.PageBounds(len(resp), page, pageSize)
	meta := response.NewPaginationMeta(int64(len(resp)), page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) PresentCount(c *gin.Context) {
	employeeID, err := h.targetEmployee(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.CountPresentInMonth(c.Request.Context(), employeeID, c.Query("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
