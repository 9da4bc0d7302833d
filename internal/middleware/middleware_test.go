package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	assert.NoError(t, err)
	return token
}

type envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"user_id":    c.GetString(middleware.CtxUserID),
				"role":       c.GetString(middleware.CtxRole),
				"department": c.GetString(middleware.CtxDepartment),
				"ctx_user":   contextutil.GetUserID(c.Request.Context()),
			})
		})
		return r
	}

	t.Run("valid bearer token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "u-1",
			"role":       "hr",
			"department": "People",
			"exp":        time.Now().Add(time.Hour).Unix(),
		}, jwt.SigningMethodHS256, []byte(testSecret))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "u-1", got["user_id"])
		assert.Equal(t, "hr", got["role"])
		assert.Equal(t, "People", got["department"])
		assert.Equal(t, "u-1", got["ctx_user"])
	})

	t.Run("token from cookie", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-2",
			"role":    "employee",
			"exp":     time.Now().Add(time.Hour).Unix(),
		}, jwt.SigningMethodHS256, []byte(testSecret))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "token not found", decode(t, w).Message)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Minute).Unix(),
		}, jwt.SigningMethodHS256, []byte(testSecret))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "token expired", decode(t, w).Message)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"user_id": "u-1"}, jwt.SigningMethodHS256, []byte("other"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", decode(t, w).Message)
	})

	t.Run("missing user id claim", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"role": "admin"}, jwt.SigningMethodHS256, []byte(testSecret))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequestIDAndContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ContextLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		rid := w.Header().Get(middleware.HeaderRequestID)
		assert.NotEmpty(t, rid)
		assert.Equal(t, rid, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.HeaderRequestID, "rid-42")
		r.ServeHTTP(w, req)

		assert.Equal(t, "rid-42", w.Header().Get(middleware.HeaderRequestID))
		assert.Equal(t, "rid-42", w.Body.String())
	})
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/auth/login", middleware.RateLimitByIP(0.001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CtxUserID, c.GetHeader("X-User"))
		c.Next()
	})
	r.POST("/leave/apply", middleware.RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(user string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		req.Header.Set("X-User", user)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusCreated, send("b"))
	assert.Equal(t, http.StatusCreated, send(""))
	assert.Equal(t, http.StatusCreated, send(""))
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const (
		userID = "u-1"
		key    = "k-1"
	)
	cacheKey := middleware.IdempotencyCacheKey("/leave/apply", userID, key)
	lockKey := cacheKey + ":lock"

	t.Run("first request is executed and stored", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, userID); c.Next() })
		r.POST("/leave/apply", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", middleware.IdempotencyLockTTL).SetVal(true)
		mock.ExpectSet(cacheKey, `{"status":201,"body":{"success":true}}`, middleware.IdempotencyCacheTTL).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay returns stored response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, userID); c.Next() })
		r.POST("/leave/apply", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"success":true,"data":{"id":"l-1"}}}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get(middleware.HeaderReplayed))
		assert.JSONEq(t, `{"success":true,"data":{"id":"l-1"}}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in flight duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, userID); c.Next() })
		r.POST("/leave/apply", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", middleware.IdempotencyLockTTL).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "PROCESSING", decode(t, w).Code)
	})

	t.Run("failed response is not stored", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, userID); c.Next() })
		r.POST("/leave/apply", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			c.JSON(http.StatusConflict, gin.H{"success": false})
		})

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", middleware.IdempotencyLockTTL).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis down passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		calls := 0
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(middleware.CtxUserID, userID); c.Next() })
		r.POST("/leave/apply", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			calls++
			c.Status(http.StatusCreated)
		})

		mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave/apply", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("no key skips redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.POST("/leave/apply", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leave/apply", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://hr.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://hr.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://hr.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin is refused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
