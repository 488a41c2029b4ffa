package handler

import (
	"context"
	"net/http"
	"strconv"

	appreport "github.com/fieldops/backend/internal/application/report"
	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportService generates and serves booking reports
type ReportService interface {
	Generate(ctx context.Context, actor access.Actor, req appreport.GenerateRequest) (*report.Report, error)
	List(ctx context.Context, actor access.Actor, req appreport.ListRequest) (*appreport.ListResult, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*report.Report, error)
	Download(ctx context.Context, actor access.Actor, id uuid.UUID) (*appreport.Download, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, actor access.Actor) (*report.Stats, error)
	Periods(year int) *appreport.Periods
}

// ReportHandler serves the report routes
type ReportHandler struct {
	BaseHandler
	svc ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Generate builds a report synchronously and answers 201 with it
func (h *ReportHandler) Generate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appreport.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	rep, err := h.svc.Generate(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rep)
}

// List returns the caller's reports, or every report for state admins
func (h *ReportHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appreport.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	result, err := h.svc.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReportListResponse{
		Success: true,
		Count:   len(result.Reports),
		Total:   result.Total,
		Pagination: dto.PageInfo{
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.Pages(),
		},
		Data: result.Reports,
	})
}

// Get returns one report
func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rep, err := h.svc.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rep)
}

// Download redirects to object storage or streams the local file
func (h *ReportHandler) Download(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	dl, err := h.svc.Download(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if dl.URL != "" {
		c.Redirect(http.StatusFound, dl.URL)
		return
	}
	c.FileAttachment(dl.Path, dl.FileName)
}

// Delete removes a report and its file
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{})
}

// Stats counts reports by type and status
func (h *ReportHandler) Stats(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Periods lists the selectable options for ?year, defaulting to this year
func (h *ReportHandler) Periods(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Invalid year "+raw)
			return
		}
		year = y
	}
	h.Success(c, h.svc.Periods(year))
}
