package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/scheduler"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves health and service information
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	timeout   time.Duration
}

// NewSystemHandler creates a SystemHandler. Each check must pass for the
// service to report healthy.
func NewSystemHandler(name, version string, checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   3 * time.Second,
	}
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health runs every dependency check. Any failure answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}

// JobRunner lists and triggers scheduled jobs
type JobRunner interface {
	Jobs() []scheduler.JobState
	Trigger(name string) error
}

// JobHandler serves the admin job routes
type JobHandler struct {
	BaseHandler
	jobs JobRunner
}

// NewJobHandler creates a JobHandler
func NewJobHandler(jobs JobRunner) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// List returns every registered job with its last outcome
func (h *JobHandler) List(c *gin.Context) {
	h.Success(c, h.jobs.Jobs())
}

// Trigger runs a job now and waits for it
func (h *JobHandler) Trigger(c *gin.Context) {
	name := c.Param("name")
	err := h.jobs.Trigger(name)
	switch {
	case err == nil:
		h.Success(c, gin.H{"name": name})
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.NotFound(c, "Job not found: "+name)
	case errors.Is(err, scheduler.ErrJobAlreadyRunning), errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.Error(c, http.StatusConflict, dto.ErrCodeInvalidState, err.Error())
	default:
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Job failed: "+err.Error())
	}
}
