package rbac

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// MyCapabilities lists what the caller's role is allowed to do, for the frontend to toggle menus.
func (h *Handler) MyCapabilities(c *gin.Context) {
	role := c.GetString("role")

	caps, err := h.service.Capabilities(role)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, CapabilitiesResponse{Role: role, Capabilities: caps}, nil)
}
