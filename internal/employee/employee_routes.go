package employee

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(authMiddleware)
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("/me",
			middleware.RateLimitByUser(3, 10),
			handler.Me,
		)
	}
}
