package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyLimitEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), BodyLimit(limit))
	r.POST("/api/v1/bookings", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "cut at %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusCreated, "%d", len(data))
	})
	r.GET("/api/v1/bookings", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name          string
		limit         int64
		method        string
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{
			name:          "booking within limit",
			limit:         64,
			method:        http.MethodPost,
			body:          `{"name":"Ada"}`,
			contentLength: 14,
			wantStatus:    http.StatusCreated,
			wantBody:      "14",
		},
		{
			name:          "declared length over limit",
			limit:         16,
			method:        http.MethodPost,
			body:          strings.Repeat("x", 40),
			contentLength: 40,
			wantStatus:    http.StatusRequestEntityTooLarge,
			wantBody:      ErrCodeRequestTooLarge,
		},
		{
			name:          "chunked body is cut by the reader",
			limit:         16,
			method:        http.MethodPost,
			body:          strings.Repeat("x", 40),
			contentLength: -1,
			wantStatus:    http.StatusRequestEntityTooLarge,
			wantBody:      "cut at 16",
		},
		{
			name:       "reads pass through",
			limit:      1,
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/api/v1/bookings", body)
			if tt.body != "" {
				req.ContentLength = tt.contentLength
			}
			w := httptest.NewRecorder()
			bodyLimitEngine(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBodyLimit_RejectionCarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(strings.Repeat("x", 10)))
	req.Header.Set(RequestIDHeader, "req-body-1")
	w := httptest.NewRecorder()
	bodyLimitEngine(4).ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeRequestTooLarge, resp.Error.Code)
	assert.Equal(t, "req-body-1", resp.Error.RequestID)
}
