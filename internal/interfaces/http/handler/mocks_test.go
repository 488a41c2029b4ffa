package handler

import (
	"context"
	"net/url"

	"github.com/fieldops/backend/internal/application/payment"
	apprecord "github.com/fieldops/backend/internal/application/record"
	appreport "github.com/fieldops/backend/internal/application/report"
	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/domain/window"
	"github.com/fieldops/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRecordService[T any] struct {
	mock.Mock
	kind record.Kind
}

func (m *MockRecordService[T]) Kind() record.Kind { return m.kind }

func (m *MockRecordService[T]) List(ctx context.Context, actor access.Actor, params map[string][]string) (*query.Result[T], error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.Result[T]), args.Error(1)
}

func (m *MockRecordService[T]) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordService[T]) Create(ctx context.Context, actor access.Actor, fields access.Fields) (*T, error) {
	args := m.Called(ctx, actor, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordService[T]) Update(ctx context.Context, actor access.Actor, id uuid.UUID, patch access.Fields) (*T, error) {
	args := m.Called(ctx, actor, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRecordService[T]) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) BookingCounts(ctx context.Context, actor access.Actor, params url.Values) (window.Buckets, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(window.Buckets), args.Error(1)
}

func (m *MockStatsService) BookingRevenue(ctx context.Context, actor access.Actor, params url.Values) (window.Buckets, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(window.Buckets), args.Error(1)
}

func (m *MockStatsService) FineTotals(ctx context.Context, actor access.Actor, params url.Values) (apprecord.FineTotals, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.FineTotals), args.Error(1)
}

func (m *MockStatsService) FineMonth(ctx context.Context, actor access.Actor, params url.Values) (apprecord.FineMonth, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.FineMonth), args.Error(1)
}

func (m *MockStatsService) InsuranceTotals(ctx context.Context, actor access.Actor, params url.Values) (apprecord.InsuranceTotals, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.InsuranceTotals), args.Error(1)
}

func (m *MockStatsService) InsuranceBars(ctx context.Context, actor access.Actor, params url.Values) ([]window.Amount, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).([]window.Amount), args.Error(1)
}

func (m *MockStatsService) InsuranceShares(ctx context.Context, actor access.Actor, params url.Values) ([]window.Share, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).([]window.Share), args.Error(1)
}

func (m *MockStatsService) InsuranceSeries(ctx context.Context, actor access.Actor, params url.Values) ([]window.Amount, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).([]window.Amount), args.Error(1)
}

func (m *MockStatsService) InspectionTotals(ctx context.Context, actor access.Actor, params url.Values) (apprecord.InspectionTotals, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.InspectionTotals), args.Error(1)
}

func (m *MockStatsService) InspectionShares(ctx context.Context, actor access.Actor, params url.Values) ([]window.Share, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).([]window.Share), args.Error(1)
}

func (m *MockStatsService) InspectionMonth(ctx context.Context, actor access.Actor, params url.Values) (apprecord.InspectionMonth, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.InspectionMonth), args.Error(1)
}

func (m *MockStatsService) FireTotals(ctx context.Context, actor access.Actor, params url.Values) (apprecord.FireTotals, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.FireTotals), args.Error(1)
}

func (m *MockStatsService) FireMonth(ctx context.Context, actor access.Actor, params url.Values) (apprecord.FireMonth, error) {
	args := m.Called(ctx, actor, params)
	return args.Get(0).(apprecord.FireMonth), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) SyncAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPaymentService) CheckOne(ctx context.Context, actor access.Actor, id uuid.UUID) (string, error) {
	args := m.Called(ctx, actor, id)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) HandleCallback(ctx context.Context, cb payment.Callback) (*payment.CallbackResult, error) {
	args := m.Called(ctx, cb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CallbackResult), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, actor access.Actor, req appreport.GenerateRequest) (*report.Report, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportService) List(ctx context.Context, actor access.Actor, req appreport.ListRequest) (*appreport.ListResult, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreport.ListResult), args.Error(1)
}

func (m *MockReportService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*report.Report, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Report), args.Error(1)
}

func (m *MockReportService) Download(ctx context.Context, actor access.Actor, id uuid.UUID) (*appreport.Download, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreport.Download), args.Error(1)
}

func (m *MockReportService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReportService) Stats(ctx context.Context, actor access.Actor) (*report.Stats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Stats), args.Error(1)
}

func (m *MockReportService) Periods(year int) *appreport.Periods {
	return m.Called(year).Get(0).(*appreport.Periods)
}

type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) Jobs() []scheduler.JobState {
	return m.Called().Get(0).([]scheduler.JobState)
}

func (m *MockJobRunner) Trigger(name string) error {
	return m.Called(name).Error(0)
}
