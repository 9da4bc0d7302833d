package leave_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"
	leaveMock "go-hrms/internal/leave/mock"
	"go-hrms/internal/middleware"
	"go-hrms/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiEnvelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Code       string          `json:"code"`
	Pagination *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int   `json:"pages"`
	} `json:"pagination"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func newLeaveRouter(svc leave.Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	h := leave.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CtxUserID, "user-1")
		c.Set(middleware.CtxRole, role)
		c.Next()
	})
	r.POST("/leave/apply", h.Apply)
	r.GET("/leave/my-leaves", h.MyLeaves)
	r.GET("/leave/balance", h.Balance)
	r.DELETE("/leave/:id", h.Cancel)
	r.GET("/leave/all", h.All)
	r.PUT("/leave/:id/approve", h.Decide)
	r.GET("/leave/stats", h.Stats)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Apply(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			Apply(gomock.Any(), "user-1", leave.ApplyLeaveRequest{
				Type:      "casual",
				StartDate: "2024-12-25",
				EndDate:   "2024-12-26",
				Reason:    "Christmas with family",
				Documents: []string{"https://files.example.com/a.pdf"},
			}).
			Return(leave.LeaveResponse{ID: "l-1", Status: leave.StatusPending, Days: 2, Documents: []string{}}, nil)

		w := doRequest(newLeaveRouter(svc, "employee"), http.MethodPost, "/leave/apply",
			`{"type":"casual","startDate":"2024-12-25","endDate":"2024-12-26","reason":"Christmas with family","documents":["https://files.example.com/a.pdf"]}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Success)
		var data leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, "l-1", data.ID)
		assert.Equal(t, 2, data.Days)
	})

	t.Run("binding errors never reach the service", func(t *testing.T) {
		bodies := []string{
			`{"type":"vacation","startDate":"2024-12-25","endDate":"2024-12-26","reason":"Christmas with family"}`,
			`{"type":"casual","startDate":"25/12/2024","endDate":"2024-12-26","reason":"Christmas with family"}`,
			`{"type":"casual","startDate":"2024-12-25","endDate":"2024-12-26","reason":"short"}`,
			`{"type":"casual","startDate":"2024-12-25","endDate":"2024-12-26"}`,
			`not json`,
		}
		for _, body := range bodies {
			ctrl := gomock.NewController(t)
			svc := leaveMock.NewMockService(ctrl)

			w := doRequest(newLeaveRouter(svc, "employee"), http.MethodPost, "/leave/apply", body)

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			env := decodeEnvelope(t, w.Body.Bytes())
			assert.False(t, env.Success)
			assert.Equal(t, apperror.CodeInvalidInput, env.Code, body)
		}
	})

	t.Run("overlap maps to conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveOverlap)

		w := doRequest(newLeaveRouter(svc, "employee"), http.MethodPost, "/leave/apply",
			`{"type":"sick","startDate":"2024-12-15","endDate":"2024-12-17","reason":"Flu and fever"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeConflict, env.Code)
		assert.Equal(t, leaveerrors.ErrLeaveOverlap.Message, env.Message)
	})

	t.Run("unexpected errors are hidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().Apply(gomock.Any(), gomock.Any(), gomock.Any()).Return(leave.LeaveResponse{}, errors.New("pq: connection reset"))

		w := doRequest(newLeaveRouter(svc, "employee"), http.MethodPost, "/leave/apply",
			`{"type":"sick","startDate":"2024-12-15","endDate":"2024-12-17","reason":"Flu and fever"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestHandler_Listing(t *testing.T) {
	t.Run("my leaves with pagination and filters", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			MyLeaves(gomock.Any(), "user-1", leave.ListQuery{Page: 2, Limit: 5, Status: "pending", Type: "sick"}).
			Return([]leave.LeaveResponse{{ID: "l-1"}}, int64(6), nil)

		w := doRequest(newLeaveRouter(svc, "employee"), http.MethodGet, "/leave/my-leaves?page=2&limit=5&status=pending&type=sick", "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Pagination)
		assert.Equal(t, 2, env.Pagination.Page)
		assert.Equal(t, int64(6), env.Pagination.Total)
		assert.Equal(t, 2, env.Pagination.Pages)
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().MyLeaves(gomock.Any(), gomock.Any(), gomock.Any()).Return([]leave.LeaveResponse{}, int64(0), nil)

		w := doRequest(newLeaveRouter(svc, "employee"), http.MethodGet, "/leave/my-leaves", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", string(decodeEnvelope(t, w.Body.Bytes()).Data))
	})

	t.Run("all passes the employee filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().
			All(gomock.Any(), leave.ListQuery{Page: 1, Limit: 10, EmployeeID: "emp-9"}).
			Return(nil, int64(0), nil)

		w := doRequest(newLeaveRouter(svc, "hr"), http.MethodGet, "/leave/all?employeeId=emp-9", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandler_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leaveMock.NewMockService(ctrl)
	svc.EXPECT().Balance(gomock.Any(), "user-1").Return(leave.BalanceResponse{
		leave.TypeCasual: {Allocated: 12, Used: 2, Remaining: 10},
	}, nil)

	w := doRequest(newLeaveRouter(svc, "employee"), http.MethodGet, "/leave/balance", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"casual":{"allocated":12,"used":2,"remaining":10}}`, string(decodeEnvelope(t, w.Body.Bytes()).Data))
}

func TestHandler_Cancel(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"not found", leaveerrors.ErrLeaveNotFound, http.StatusNotFound},
		{"not owned", leaveerrors.ErrLeaveNotOwned, http.StatusForbidden},
		{"not pending", leaveerrors.ErrLeaveNotPending, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := leaveMock.NewMockService(ctrl)
			svc.EXPECT().Cancel(gomock.Any(), "user-1", "l-1").Return(tc.err)

			w := doRequest(newLeaveRouter(svc, "employee"), http.MethodDelete, "/leave/l-1", "")

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestHandler_Decide(t *testing.T) {
	t.Run("passes actor and role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		reason := "Peak season"
		svc.EXPECT().
			Decide(gomock.Any(), "user-1", "hr", "l-1", leave.DecideLeaveRequest{Status: "rejected", RejectionReason: &reason}).
			Return(leave.LeaveResponse{ID: "l-1", Status: leave.StatusRejected, RejectionReason: &reason}, nil)

		w := doRequest(newLeaveRouter(svc, "hr"), http.MethodPut, "/leave/l-1/approve", `{"status":"rejected","rejectionReason":"Peak season"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("status outside approved or rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)

		w := doRequest(newLeaveRouter(svc, "hr"), http.MethodPut, "/leave/l-1/approve", `{"status":"pending"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already processed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leaveMock.NewMockService(ctrl)
		svc.EXPECT().Decide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveAlreadyProcessed)

		w := doRequest(newLeaveRouter(svc, "hr"), http.MethodPut, "/leave/l-1/approve", `{"status":"approved"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestHandler_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := leaveMock.NewMockService(ctrl)
	svc.EXPECT().Stats(gomock.Any()).Return(leave.StatsResponse{Year: 2024, Total: 3}, nil)

	w := doRequest(newLeaveRouter(svc, "admin"), http.MethodGet, "/leave/stats", "")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var stats leave.StatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2024, stats.Year)
}
