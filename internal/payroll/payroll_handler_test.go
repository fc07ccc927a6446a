package payroll_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-staffhub/internal/payroll"
	payrollerrors "go-staffhub/internal/payroll/errors"
	"go-staffhub/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	listFn     func(ctx context.Context, viewer contextutil.Actor, employeeID string) ([]payroll.PayslipResponse, error)
	documentFn func(ctx context.Context, viewer contextutil.Actor, id string) (payroll.PayslipDocument, error)
}

func (f *fakeService) List(ctx context.Context, viewer contextutil.Actor, employeeID string) ([]payroll.PayslipResponse, error) {
	return f.listFn(ctx, viewer, employeeID)
}
func (f *fakeService) Get(ctx context.Context, viewer contextutil.Actor, id string) (payroll.PayslipResponse, error) {
	return payroll.PayslipResponse{}, payrollerrors.ErrPayslipNotFound
}
func (f *fakeService) Document(ctx context.Context, viewer contextutil.Actor, id string) (payroll.PayslipDocument, error) {
	return f.documentFn(ctx, viewer, id)
}
func (f *fakeService) Import(ctx context.Context, req payroll.ImportPayslipRequest) (payroll.PayslipResponse, error) {
	return payroll.PayslipResponse{}, nil
}

func newContext(w *httptest.ResponseRecorder, method, target string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, nil)
	ctx := contextutil.WithActor(req.Context(), contextutil.Actor{EmployeeID: "emp-1", Role: "employee"})
	c.Request = req.WithContext(ctx)
	return c
}

func TestHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := payroll.NewHandler(&fakeService{
		listFn: func(ctx context.Context, viewer contextutil.Actor, employeeID string) ([]payroll.PayslipResponse, error) {
			assert.Equal(t, "emp-1", viewer.EmployeeID)
			assert.Equal(t, "emp-2", employeeID)
			return nil, payrollerrors.ErrViewOthersForbidden
		},
	})

	w := httptest.NewRecorder()
	h.GetAll(newContext(w, http.MethodGet, "/payslips?employee_id=emp-2"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_Download(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := payroll.NewHandler(&fakeService{
		documentFn: func(ctx context.Context, viewer contextutil.Actor, id string) (payroll.PayslipDocument, error) {
			if id == "stored" {
				return payroll.PayslipDocument{RedirectURL: "https://files.example.com/x.pdf"}, nil
			}
			return payroll.PayslipDocument{PDF: []byte("%PDF-1.4"), Filename: "payslip-2024-02.pdf"}, nil
		},
	})

	w := httptest.NewRecorder()
	c := newContext(w, http.MethodGet, "/payslips/rendered/pdf")
	c.Params = gin.Params{{Key: "id", Value: "rendered"}}
	h.Download(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payslip-2024-02.pdf"`, w.Header().Get("Content-Disposition"))

	w = httptest.NewRecorder()
	c = newContext(w, http.MethodGet, "/payslips/stored/pdf")
	c.Params = gin.Params{{Key: "id", Value: "stored"}}
	h.Download(c)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://files.example.com/x.pdf", w.Header().Get("Location"))
}
