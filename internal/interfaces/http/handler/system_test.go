package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/fieldops/backend/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonField(t *testing.T, w interface{ Bytes() []byte }, key string) string {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Bytes(), &body))
	return string(body[key])
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("fieldops-backend", "1.0.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		router := gin.New()
		router.GET("/health", h.Health)

		w := serve(router, http.MethodGet, "/health", "")

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, map[string]any{"database": "ok"}, data["checks"])
		assert.NotEmpty(t, data["go_version"])
	})

	t.Run("degraded", func(t *testing.T) {
		h := NewSystemHandler("fieldops-backend", "1.0.0", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		router := gin.New()
		router.GET("/health", h.Health)

		w := serve(router, http.MethodGet, "/health", "")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "degraded", data["status"])
		assert.Equal(t, "connection refused", data["checks"].(map[string]any)["redis"])
	})
}

func TestJobHandler(t *testing.T) {
	jobs := &MockJobRunner{}
	jobs.On("Jobs").Return([]scheduler.JobState{{Name: "payment-sync", Schedule: "@every 15m", Status: scheduler.JobStatusIdle}})
	jobs.On("Trigger", "payment-sync").Return(nil)
	jobs.On("Trigger", "missing").Return(scheduler.ErrJobNotFound)
	jobs.On("Trigger", "busy").Return(scheduler.ErrJobAlreadyRunning)
	jobs.On("Trigger", "broken").Return(errors.New("gateway timeout"))

	h := NewJobHandler(jobs)
	router := gin.New()
	router.GET("/admin/jobs", h.List)
	router.POST("/admin/jobs/:name/trigger", h.Trigger)

	w := serve(router, http.MethodGet, "/admin/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeResponse(t, w).Data.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "payment-sync", list[0].(map[string]any)["name"])

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/admin/jobs/payment-sync/trigger", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/admin/jobs/missing/trigger", "").Code)
	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPost, "/admin/jobs/busy/trigger", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodPost, "/admin/jobs/broken/trigger", "").Code)
}
