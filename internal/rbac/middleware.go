package rbac

import (
	"net/http"

	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Require aborts with 403 unless the role placed on the context by the auth middleware holds capability.
func Require(service Service, capability Capability) gin.HandlerFunc {
	log := zap.L().Named("rbac.middleware")
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context")
			return
		}

		roleStr, _ := role.(string)
		if !service.Can(roleStr, capability) {
			log.Warn("capability denied",
				zap.String("role", roleStr),
				zap.String("capability", capability.String()),
				zap.String("path", c.FullPath()),
			)
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource")
			return
		}

		c.Next()
	}
}
