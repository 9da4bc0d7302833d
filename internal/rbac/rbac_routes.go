package rbac

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	g := r.Group("/rbac")
	g.Use(authMiddleware)
	{
		g.GET("/capabilities", handler.MyCapabilities)
	}
}
