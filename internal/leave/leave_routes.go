package leave

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMiddleware gin.HandlerFunc,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leave")
	leaves.Use(authMiddleware)
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("/apply",
			rbac.Require(rbacService, rbac.CapLeaveApply),
			middleware.RateLimitByUser(1, 5),
			middleware.Idempotency(rdb, logger),
			handler.Apply,
		)
		leaves.GET("/my-leaves",
			rbac.Require(rbacService, rbac.CapLeaveReadOwn),
			middleware.RateLimitByUser(5, 20),
			handler.MyLeaves,
		)
		leaves.GET("/balance",
			rbac.Require(rbacService, rbac.CapLeaveReadOwn),
			middleware.RateLimitByUser(5, 20),
			handler.Balance,
		)
		leaves.DELETE("/:id",
			rbac.Require(rbacService, rbac.CapLeaveCancelOwn),
			middleware.RateLimitByUser(2, 5),
			handler.Cancel,
		)
		leaves.GET("/all",
			rbac.Require(rbacService, rbac.CapLeaveReadAll),
			middleware.RateLimitByUser(5, 20),
			handler.All,
		)
		leaves.PUT("/:id/approve",
			rbac.Require(rbacService, rbac.CapLeaveApprove),
			middleware.RateLimitByUser(2, 10),
			handler.Decide,
		)
		leaves.GET("/stats",
			rbac.Require(rbacService, rbac.CapLeaveStats),
			middleware.RateLimitByUser(2, 10),
			handler.Stats,
		)
	}
}
