package notification

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMiddleware gin.HandlerFunc,
	logger *zap.Logger,
) {
	notifications := r.Group("/notifications")
	notifications.Use(authMiddleware)
	notifications.Use(middleware.ContextLogger(logger))
	notifications.Use(rbac.Require(rbacService, rbac.CapNotificationReadOwn))
	{
		notifications.GET("", middleware.RateLimitByUser(5, 20), handler.ListMine)
		notifications.PATCH("/:id/read", middleware.RateLimitByUser(5, 20), handler.MarkRead)
	}
}
