package app

import (
	"context"

	"go-hrms/internal/auth"
	"go-hrms/internal/config"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka/producer"
	"go-hrms/internal/middleware"
	"go-hrms/internal/notification"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"
	"go-hrms/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	deps Infra,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(deps.GormDB)
	employeeRepo := employee.NewRepository(deps.GormDB)
	leaveRepo := leave.NewRepository(deps.GormDB)
	notificationRepo := notification.NewRepository(deps.GormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo, auth.TokenConfig{Secret: cfg.JWTSecret, Expiry: cfg.JWTExpiry}, deps.Clock, logger)
	employeeService := employee.NewService(employeeRepo, userRepo, deps.Redis, logger)
	// roles change outside the API, so a restart must not serve a stale approver list
	employeeService.InvalidateApprovers(context.Background())
	notificationService := notification.NewService(notificationRepo, deps.Clock, logger)

	var dispatcher notification.Dispatcher
	if deps.Kafka != nil {
		dispatcher = producer.NewNotificationDispatcher(deps.Kafka, deps.Clock, logger)
	} else {
		dispatcher = notification.NewDirectDispatcher(notificationService)
	}

	leaveService := leave.NewService(
		deps.SQLDB,
		leaveRepo,
		employeeService,
		dispatcher,
		rbacService,
		leave.NewAllocationPolicy(cfg.LeaveAllocation),
		deps.Clock,
		logger,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, int(cfg.JWTExpiry.Seconds()), cfg.IsProduction(), logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	rbacHandler := rbac.NewHandler(rbacService)
	healthHandler := NewHealthHandler(deps.SQLDB, deps.Redis)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// --- Routes Registration ---
	router.GET("/healthz", healthHandler.Check)

	root := router.Group("")
	{
		auth.RegisterRoutes(root, authHandler, authMiddleware)
		employee.RegisterRoutes(root, employeeHandler, authMiddleware, logger)
		leave.RegisterRoutes(root, leaveHandler, rbacService, authMiddleware, deps.Redis, logger)
		notification.RegisterRoutes(root, notificationHandler, rbacService, authMiddleware, logger)
		rbac.RegisterRoutes(root, rbacHandler, authMiddleware)
	}

	return nil
}
