package handler

import (
	"context"
	"net/url"

	"github.com/fieldops/backend/internal/application/record"
	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/window"
	"github.com/gin-gonic/gin"
)

// StatsService computes the dashboard figures
type StatsService interface {
	BookingCounts(ctx context.Context, actor access.Actor, params url.Values) (window.Buckets, error)
	BookingRevenue(ctx context.Context, actor access.Actor, params url.Values) (window.Buckets, error)
	FineTotals(ctx context.Context, actor access.Actor, params url.Values) (record.FineTotals, error)
	FineMonth(ctx context.Context, actor access.Actor, params url.Values) (record.FineMonth, error)
	InsuranceTotals(ctx context.Context, actor access.Actor, params url.Values) (record.InsuranceTotals, error)
	InsuranceBars(ctx context.Context, actor access.Actor, params url.Values) ([]window.Amount, error)
	InsuranceShares(ctx context.Context, actor access.Actor, params url.Values) ([]window.Share, error)
	InsuranceSeries(ctx context.Context, actor access.Actor, params url.Values) ([]window.Amount, error)
	InspectionTotals(ctx context.Context, actor access.Actor, params url.Values) (record.InspectionTotals, error)
	InspectionShares(ctx context.Context, actor access.Actor, params url.Values) ([]window.Share, error)
	InspectionMonth(ctx context.Context, actor access.Actor, params url.Values) (record.InspectionMonth, error)
	FireTotals(ctx context.Context, actor access.Actor, params url.Values) (record.FireTotals, error)
	FireMonth(ctx context.Context, actor access.Actor, params url.Values) (record.FireMonth, error)
}

// StatsHandler serves the stat routes of every record kind that has them
type StatsHandler struct {
	BaseHandler
	svc StatsService
}

// NewStatsHandler creates a StatsHandler
func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// serveStat adapts one stats method into a gin handler
func serveStat[V any](h *StatsHandler, compute func(context.Context, access.Actor, url.Values) (V, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.actor(c)
		if !ok {
			return
		}
		v, err := compute(c.Request.Context(), actor, c.Request.URL.Query())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, v)
	}
}

// BookingCounts serves GET /bookings/stat
func (h *StatsHandler) BookingCounts(c *gin.Context) { serveStat(h, h.svc.BookingCounts)(c) }

// BookingRevenue serves GET /bookings/rev
func (h *StatsHandler) BookingRevenue(c *gin.Context) { serveStat(h, h.svc.BookingRevenue)(c) }

// FineTotals serves GET /fines/stat
func (h *StatsHandler) FineTotals(c *gin.Context) { serveStat(h, h.svc.FineTotals)(c) }

// FineMonth serves GET /fines/month
func (h *StatsHandler) FineMonth(c *gin.Context) { serveStat(h, h.svc.FineMonth)(c) }

// InsuranceTotals serves GET /insurances/stat
func (h *StatsHandler) InsuranceTotals(c *gin.Context) { serveStat(h, h.svc.InsuranceTotals)(c) }

// InsuranceBars serves GET /insurances/stat/bar
func (h *StatsHandler) InsuranceBars(c *gin.Context) { serveStat(h, h.svc.InsuranceBars)(c) }

// InsuranceShares serves GET /insurances/stat/pie
func (h *StatsHandler) InsuranceShares(c *gin.Context) { serveStat(h, h.svc.InsuranceShares)(c) }

// InsuranceSeries serves GET /insurances/graph
func (h *StatsHandler) InsuranceSeries(c *gin.Context) { serveStat(h, h.svc.InsuranceSeries)(c) }

// InspectionTotals serves GET /inspections/stat
func (h *StatsHandler) InspectionTotals(c *gin.Context) { serveStat(h, h.svc.InspectionTotals)(c) }

// InspectionShares serves GET /inspections/stat/pie
func (h *StatsHandler) InspectionShares(c *gin.Context) { serveStat(h, h.svc.InspectionShares)(c) }

// InspectionMonth serves GET /inspections/month
func (h *StatsHandler) InspectionMonth(c *gin.Context) { serveStat(h, h.svc.InspectionMonth)(c) }

// FireTotals serves GET /fires/stat
func (h *StatsHandler) FireTotals(c *gin.Context) { serveStat(h, h.svc.FireTotals)(c) }

// FireMonth serves GET /fires/month
func (h *StatsHandler) FireMonth(c *gin.Context) { serveStat(h, h.svc.FireMonth)(c) }
