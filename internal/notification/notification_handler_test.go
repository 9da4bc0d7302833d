package notification_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrms/internal/middleware"
	"go-hrms/internal/notification"
	notificationerrors "go-hrms/internal/notification/errors"
	notificationMock "go-hrms/internal/notification/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newNotificationRouter(svc notification.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := notification.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.CtxUserID, "user-1")
		c.Next()
	})
	r.GET("/notifications", h.ListMine)
	r.PATCH("/notifications/:id/read", h.MarkRead)
	return r
}

func TestHandler_ListMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := notificationMock.NewMockService(ctrl)
	router := newNotificationRouter(svc)

	svc.EXPECT().
		ListMine(gomock.Any(), "user-1", notification.ListFilter{UnreadOnly: true, Page: 1, Limit: 10}).
		Return([]notification.NotificationResponse{{ID: "n-1"}}, int64(11), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notifications?unread=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Data       []notification.NotificationResponse `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Data, 1)
	assert.Equal(t, int64(11), res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.Pages)
}

func TestHandler_MarkRead(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := notificationMock.NewMockService(ctrl)
		svc.EXPECT().MarkRead(gomock.Any(), "user-1", "n-1").Return(nil)

		w := httptest.NewRecorder()
		newNotificationRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/notifications/n-1/read", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := notificationMock.NewMockService(ctrl)
		svc.EXPECT().MarkRead(gomock.Any(), "user-1", "n-2").Return(notificationerrors.ErrNotificationNotFound)

		w := httptest.NewRecorder()
		newNotificationRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/notifications/n-2/read", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
