// Package report runs the report lifecycle: generation, listing, download
// and removal of booking spreadsheets.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// DefaultListLimit is the page size of report listings
const DefaultListLimit = query.DefaultLimit

// Renderer turns a compiled document into file bytes
type Renderer interface {
	Render(doc *report.Document) ([]byte, error)
}

// FileStore keeps rendered report files
type FileStore interface {
	// Put stores data under name and returns its location
	Put(ctx context.Context, name string, data []byte) (string, error)
	// Link returns the URL a client should be redirected to
	Link(ctx context.Context, location string) (string, error)
	// Path resolves a local location to a file on disk
	Path(location string) (string, error)
	Delete(ctx context.Context, location string) error
}

// PaymentSyncer refreshes booking payment state before a report is built
type PaymentSyncer interface {
	SyncAll(ctx context.Context) (int, error)
}

// DurationObserver records how long generation took
type DurationObserver interface {
	ObserveReportDuration(reportType string, d time.Duration)
}

// Config tunes a Service
type Config struct {
	Location *time.Location
	Now      func() time.Time
}

// GenerateRequest is the body of a generate call
type GenerateRequest struct {
	ReportType   string `json:"reportType" binding:"required"`
	Period       string `json:"period" binding:"required"`
	Year         int    `json:"year"`
	Month        *int   `json:"month"`
	Week         int    `json:"week"`
	Day          string `json:"day"`
	Zone         string `json:"zone" binding:"omitempty,zone"`
	Unit         string `json:"unit" binding:"omitempty,unit"`
	SyncPayments bool   `json:"syncPayments"`
}

// ListRequest narrows a listing
type ListRequest struct {
	ReportType string `form:"reportType" binding:"omitempty,report_type"`
	Period     string `form:"period" binding:"omitempty,period"`
	Zone       string `form:"zone" binding:"omitempty,zone"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ListResult is one page of reports
type ListResult struct {
	Reports []report.Report
	Total   int64
	Page    int
	Limit   int
}

// Pages returns the number of pages in the listing
func (r *ListResult) Pages() int {
	if r.Limit <= 0 {
		return 0
	}
	return int((r.Total + int64(r.Limit) - 1) / int64(r.Limit))
}

// Download tells the caller where a report file can be fetched from.
// Exactly one of URL and Path is set.
type Download struct {
	URL      string
	Path     string
	FileName string
}

// TypeOption is a selectable report type
type TypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Periods lists what a generate request may select for a year
type Periods struct {
	Year        int                  `json:"year"`
	ReportTypes []TypeOption         `json:"reportTypes"`
	Periods     []report.Period      `json:"periods"`
	Weeks       []report.WeekOption  `json:"weeks"`
	Months      []report.MonthOption `json:"months"`
}

// Service orchestrates report generation and retrieval
type Service struct {
	reports   report.Repository
	bookings  record.Repository[record.Booking]
	renderer  Renderer
	files     FileStore
	publisher shared.EventPublisher
	payments  PaymentSyncer
	observer  DurationObserver
	cfg       Config
	logger    *zap.Logger
}

// NewService creates a report Service
func NewService(
	reports report.Repository,
	bookings record.Repository[record.Booking],
	renderer Renderer,
	files FileStore,
	publisher shared.EventPublisher,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if publisher == nil {
		publisher = shared.NoopEventPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reports:   reports,
		bookings:  bookings,
		renderer:  renderer,
		files:     files,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// WithPaymentSync lets generate requests refresh payments first
func (s *Service) WithPaymentSync(p PaymentSyncer) *Service {
	s.payments = p
	return s
}

// WithDurationObserver reports generation timings to o
func (s *Service) WithDurationObserver(o DurationObserver) *Service {
	s.observer = o
	return s
}

// Generate builds, stores and records a report. A failure after the report
// row exists leaves it in the failed state and is returned as an upstream
// error.
func (s *Service) Generate(ctx context.Context, actor access.Actor, req GenerateRequest) (*report.Report, error) {
	typ := report.Type(req.ReportType)
	if !typ.IsValid() {
		return nil, report.ErrInvalidType
	}
	period := report.Period(req.Period)
	if !period.IsValid() {
		return nil, report.ErrInvalidPeriod
	}

	now := s.cfg.Now()
	year := req.Year
	if year == 0 {
		year = now.In(s.cfg.Location).Year()
	}
	dates, err := report.CalculateRange(report.RangeRequest{
		Period: period,
		Year:   year,
		Month:  req.Month,
		Week:   req.Week,
		Day:    req.Day,
	}, now, s.cfg.Location)
	if err != nil {
		return nil, err
	}

	zone := strings.TrimSpace(req.Zone)
	if zone == "" {
		zone = report.AllZones
	}
	rep, err := report.NewReport(report.Spec{
		Type:   typ,
		Period: period,
		Range:  dates,
		Year:   year,
		Zone:   zone,
		Unit:   req.Unit,
	}, actor.ID)
	if err != nil {
		return nil, err
	}
	rep.CreatedAt = now
	if err := rep.StartGenerating(); err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("report_id", rep.ID.String()),
		zap.String("report_type", string(typ)),
		zap.String("period", string(period)),
		zap.String("zone", zone),
	)

	if req.SyncPayments && s.payments != nil {
		if n, err := s.payments.SyncAll(ctx); err != nil {
			log.Warn("payment sync before report failed", zap.Error(err))
		} else {
			log.Debug("payments synced before report", zap.Int("updated", n))
		}
	}

	started := time.Now()
	fileURL, fileName, summary, genErr := s.build(ctx, actor, rep, req.Unit, now)
	if s.observer != nil {
		s.observer.ObserveReportDuration(string(typ), time.Since(started))
	}

	if genErr != nil {
		if err := rep.Fail(genErr.Error()); err != nil {
			return nil, err
		}
		if err := s.reports.Save(ctx, rep); err != nil {
			log.Error("failed to record report failure", zap.Error(err))
		}
		s.publish(ctx, rep)
		log.Error("report generation failed", zap.Error(genErr))
		return rep, shared.WrapDomainError(shared.CodeUpstream,
			"Report generation failed: "+genErr.Error(), genErr)
	}

	if err := rep.Complete(fileURL, fileName, summary, s.cfg.Now()); err != nil {
		return nil, err
	}
	if err := s.reports.Save(ctx, rep); err != nil {
		return nil, err
	}
	s.publish(ctx, rep)

	log.Info("report generated",
		zap.String("file", fileName),
		zap.Int("records", summary.TotalRecords),
		zap.Float64("amount", summary.TotalAmount))
	return rep, nil
}

// build fetches the bookings of rep, compiles and renders them and stores
// the file
func (s *Service) build(ctx context.Context, actor access.Actor, rep *report.Report, unit string, now time.Time) (string, string, report.Summary, error) {
	var filter query.Filter
	filter.Add(query.FieldCreatedAt, query.OpGte, rep.StartDate).
		Add(query.FieldCreatedAt, query.OpLte, rep.EndDate)
	if paid := rep.ReportType.PaidFilter(); paid != nil {
		filter.Add("paid", query.OpEq, *paid)
	}
	if unit != "" && unit != report.AllZones {
		filter.Add("unit", query.OpEq, unit)
	}
	filter = filter.WithScope(access.Resolve(actor, rep.Zone))

	bookings, err := s.bookings.FindAll(ctx, filter, query.SortField{Field: query.FieldCreatedAt})
	if err != nil {
		return "", "", report.Summary{}, fmt.Errorf("fetch bookings: %w", err)
	}

	doc, summary, err := report.Compile(report.Input{
		Bookings: bookings,
		Type:     rep.ReportType,
		Period:   rep.Period,
		Range:    report.DateRange{Start: rep.StartDate, End: rep.EndDate},
		Zone:     rep.Zone,
		Unit:     rep.Unit,
		Now:      now,
		Location: s.cfg.Location,
	})
	if err != nil {
		return "", "", report.Summary{}, err
	}

	data, err := s.renderer.Render(doc)
	if err != nil {
		return "", "", report.Summary{}, err
	}

	dates := report.DateRange{Start: rep.StartDate.In(s.cfg.Location), End: rep.EndDate.In(s.cfg.Location)}
	name := report.FileName(rep.ReportType, rep.Period, rep.Zone, rep.Unit, dates, strings.ToLower(ulid.Make().String()))
	location, err := s.files.Put(ctx, name, data)
	if err != nil {
		return "", "", report.Summary{}, fmt.Errorf("store report file: %w", err)
	}
	return location, name, summary, nil
}

func (s *Service) publish(ctx context.Context, rep *report.Report) {
	events := rep.GetDomainEvents()
	rep.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish report events",
			zap.String("report_id", rep.ID.String()),
			zap.Error(err))
	}
}

// owner restricts non-admins to the reports they generated
func owner(actor access.Actor) *uuid.UUID {
	if actor.IsAdmin() {
		return nil
	}
	id := actor.ID
	return &id
}

// List returns one page of the reports visible to actor, newest first
func (s *Service) List(ctx context.Context, actor access.Actor, req ListRequest) (*ListResult, error) {
	page, limit := query.ClampPaging(req.Page, req.Limit, DefaultListLimit)

	items, total, err := s.reports.List(ctx, report.ListFilter{
		ReportType:  report.Type(req.ReportType),
		Period:      report.Period(req.Period),
		Zone:        req.Zone,
		Status:      report.Status(req.Status),
		GeneratedBy: owner(actor),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []report.Report{}
	}
	return &ListResult{Reports: items, Total: total, Page: page, Limit: limit}, nil
}

// Get returns a report visible to actor
func (s *Service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*report.Report, error) {
	rep, err := s.reports.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	if by := owner(actor); by != nil && rep.GeneratedBy != *by {
		return nil, notFound(id)
	}
	return rep, nil
}

// Download locates the file of a completed report
func (s *Service) Download(ctx context.Context, actor access.Actor, id uuid.UUID) (*Download, error) {
	rep, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := rep.CheckDownloadable(); err != nil {
		return nil, err
	}

	if strings.HasPrefix(rep.FileURL, "http") {
		url, err := s.files.Link(ctx, rep.FileURL)
		if err != nil {
			return nil, shared.WrapDomainError(shared.CodeUpstream, "Report file link failed", err)
		}
		return &Download{URL: url, FileName: rep.FileName}, nil
	}

	path, err := s.files.Path(rep.FileURL)
	if err != nil {
		return nil, shared.NewNotFoundError("Report file not found on server")
	}
	return &Download{Path: path, FileName: rep.FileName}, nil
}

// Delete removes a report and its stored file
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	rep, err := s.reports.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return notFound(id)
	}
	if err != nil {
		return err
	}
	if rep.FileURL != "" {
		if err := s.files.Delete(ctx, rep.FileURL); err != nil {
			s.logger.Warn("failed to remove report file",
				zap.String("report_id", id.String()),
				zap.String("file", rep.FileURL),
				zap.Error(err))
		}
	}
	return s.reports.Delete(ctx, id)
}

// Stats aggregates the reports visible to actor by type and status
func (s *Service) Stats(ctx context.Context, actor access.Actor) (*report.Stats, error) {
	return s.reports.Stats(ctx, owner(actor))
}

// Periods lists the selectable types, periods, weeks and months of year.
// A zero year means the current one.
func (s *Service) Periods(year int) *Periods {
	if year == 0 {
		year = s.cfg.Now().In(s.cfg.Location).Year()
	}
	types := make([]TypeOption, 0, len(report.AllTypes()))
	for _, t := range report.AllTypes() {
		types = append(types, TypeOption{Value: string(t), Label: t.Title()})
	}
	return &Periods{
		Year:        year,
		ReportTypes: types,
		Periods:     report.AllPeriods(),
		Weeks:       report.Weeks(year, s.cfg.Location),
		Months:      report.Months(year),
	}
}

func notFound(id uuid.UUID) error {
	return shared.NewNotFoundError(fmt.Sprintf("Report not found with id of %s", id))
}
