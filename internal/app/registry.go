package app

import (
	"net/http"

	"go-staffhub/internal/attendance"
	"go-staffhub/internal/auth"
	"go-staffhub/internal/employee"
	"go-staffhub/internal/leave"
	"go-staffhub/internal/messaging/kafka"
	"go-staffhub/internal/middleware"
	"go-staffhub/internal/notification"
	"go-staffhub/internal/payroll"
	"go-staffhub/internal/rbac"
	"go-staffhub/internal/report"
	"go-staffhub/internal/shared/clock"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services is the wired service graph shared by the API, the consumer and
// the admin CLI.
type Services struct {
	RBAC           rbac.Service
	Employee       employee.Service
	Auth           auth.Service
	AttendanceRepo attendance.Repository
	Attendance     attendance.Service
	Leave          leave.Service
	Report         report.Service
	Notification   notification.Service
	Payroll        payroll.Service
	Outbox         kafka.OutboxRepository
}

func NewServices(infra *Infra, logger *zap.Logger) (*Services, error) {
	cfg := infra.Config
	clk := clock.System(cfg.Location)

	// --- RBAC Core ---
	rbacService, err := rbac.NewDefaultService(logger)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	employeeRepo := employee.NewRepository(infra.GormDB)
	authRepo := auth.NewRepository(infra.GormDB)
	attendanceRepo := attendance.NewRepository(infra.GormDB)
	leaveRepo := leave.NewRepository(infra.GormDB)
	notificationRepo := notification.NewRepository(infra.GormDB)
	payrollRepo := payroll.NewRepository(infra.GormDB)
	outboxRepo := kafka.NewOutboxRepository(infra.GormDB)

	// --- Services ---
	employeeService := employee.NewService(infra.SQLDB, employeeRepo, infra.Redis, cfg.Redis.DirectoryTTL, logger)

	return &Services{
		RBAC:           rbacService,
		Employee:       employeeService,
		Auth:           auth.NewService(authRepo, employeeService, cfg.JWT.Secret, cfg.JWT.TTL, logger),
		AttendanceRepo: attendanceRepo,
		Attendance:     attendance.NewService(infra.SQLDB, attendanceRepo, clk, logger),
		Leave:          leave.NewService(infra.SQLDB, leaveRepo, outboxRepo, employeeService, rbacService, clk, logger),
		Report:         report.NewService(attendanceRepo, employeeService, clk, logger),
		Notification:   notification.NewService(notificationRepo, clk, logger),
		Payroll:        payroll.NewService(payrollRepo, employeeService, rbacService, logger),
		Outbox:         outboxRepo,
	}, nil
}

func registerModules(router *gin.Engine, infra *Infra, logger *zap.Logger) error {
	svc, err := NewServices(infra, logger)
	if err != nil {
		return err
	}
	secret := infra.Config.JWT.Secret

	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	tokenAuth := middleware.AuthMiddleware(secret)
	authn := middleware.Authenticate(secret, employee.NewIdentityResolver(svc.Employee))

	// --- Handlers ---
	authHandler := auth.NewHandler(svc.Auth, logger)
	attendanceHandler := attendance.NewHandler(svc.Attendance, svc.RBAC, logger)
	employeeHandler := employee.NewHandler(svc.Employee, logger)
	leaveHandler := leave.NewHandler(svc.Leave, logger)
	reportHandler := report.NewHandler(svc.Report, svc.RBAC, logger)
	notificationHandler := notification.NewHandler(svc.Notification, logger)
	payrollHandler := payroll.NewHandler(svc.Payroll, logger)
	rbacHandler := rbac.NewHandler(svc.RBAC)

	// --- Routes Registration ---
	auth.RegisterRoutes(router.Group("/api"), authHandler, tokenAuth)

	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, authn, svc.RBAC, infra.Redis)
		leave.RegisterRoutes(api, leaveHandler, authn, svc.RBAC, infra.Redis)
		employee.RegisterRoutes(api, employeeHandler, authn, svc.RBAC)
		report.RegisterRoutes(api, reportHandler, authn, svc.RBAC)
		notification.RegisterRoutes(api, notificationHandler, authn, svc.RBAC)
		payroll.RegisterRoutes(api, payrollHandler, authn, svc.RBAC)
		rbac.RegisterRoutes(api, rbacHandler, authn, svc.RBAC)
	}

	return nil
}
