package leave

import (
	"net/http"

	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func listQuery(c *gin.Context) ListQuery {
	page, limit := response.PageQuery(c)
	return ListQuery{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}
}

func (h *Handler) Apply(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	h.logger.Debug("http apply leave", zap.String("user_id", userID))

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http apply leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), userID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) MyLeaves(c *gin.Context) {
	q := listQuery(c)

	items, total, err := h.service.MyLeaves(c.Request.Context(), c.GetString(middleware.CtxUserID), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPagination(total, q.Page, q.Limit)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) All(c *gin.Context) {
	q := listQuery(c)
	q.EmployeeID = c.Query("employeeId")

	items, total, err := h.service.All(c.Request.Context(), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPagination(total, q.Page, q.Limit)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Balance(c *gin.Context) {
	resp, err := h.service.Balance(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString(middleware.CtxUserID)
	h.logger.Debug("http cancel leave", zap.String("leave_id", id), zap.String("user_id", userID))

	if err := h.service.Cancel(c.Request.Context(), userID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "cancelled": true}, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	id := c.Param("id")
	actorID := c.GetString(middleware.CtxUserID)
	h.logger.Debug("http decide leave", zap.String("leave_id", id), zap.String("actor_id", actorID))

	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), actorID, c.GetString(middleware.CtxRole), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
