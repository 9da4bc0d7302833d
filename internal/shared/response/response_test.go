package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, response.Pagination{Page: 1, Limit: 10, Total: 0, Pages: 0}, response.NewPagination(0, 1, 10))
	assert.Equal(t, 3, response.NewPagination(21, 1, 10).Pages)
	assert.Equal(t, 2, response.NewPagination(20, 2, 10).Pages)
}

func TestPageQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "?page=3&limit=25", 3, 25},
		{"garbage", "?page=abc&limit=-4", 1, 10},
		{"limit clamped", "?limit=1000", 1, response.MaxLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/leave/all"+tc.query, nil)

			page, limit := response.PageQuery(c)

			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.Error(c, http.StatusNotFound, "NOT_FOUND", "leave not found", nil)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "leave not found", body["message"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.NotContains(t, body, "data")
}
