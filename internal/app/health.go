package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports 503 when the database is unreachable. Redis is optional and only reported.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := gin.H{"database": "ok", "redis": "disabled"}
	code := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	if h.rdb != nil {
		status["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		}
	}

	if code != http.StatusOK {
		response.Error(c, code, apperror.CodeServiceUnavailable, "service unavailable", status)
		return
	}
	response.Success(c, code, status, nil)
}
