package employee_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-staffhub/internal/employee"
	employeeerrors "go-staffhub/internal/employee/errors"
	employeeMock "go-staffhub/internal/employee/mock"
	"go-staffhub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupHandler(t *testing.T) (*gin.Engine, *employeeMock.MockService) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	h := employee.NewHandler(svc)

	r := gin.New()
	r.GET("/employees", h.GetAll)
	r.GET("/employees/:id", h.GetByID)
	r.POST("/employees", h.Create)
	return r, svc
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.ApiEnvelope {
	t.Helper()
	var env response.ApiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEmployeeHandler_GetAll_FiltersByQuery(t *testing.T) {
	r, svc := setupHandler(t)
	svc.EXPECT().List(gomock.Any()).Return([]employee.EmployeeResponse{
		{ID: "1", FullName: "Dewi Lestari", Email: "dewi@example.com"},
		{ID: "2", FullName: "Budi", Email: "budi@example.com"},
	}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?q=dewi", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Ok)
	assert.Len(t, env.Data, 1)
}

func TestEmployeeHandler_GetByID_NotFound(t *testing.T) {
	r, svc := setupHandler(t)
	svc.EXPECT().Lookup(gomock.Any(), "missing").Return(employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEmployeeHandler_Create_ValidationError(t *testing.T) {
	r, _ := setupHandler(t)
	body, _ := json.Marshal(map[string]string{"full_name": "X"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}
