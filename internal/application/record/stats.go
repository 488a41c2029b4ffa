package record

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/window"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cache stores computed stats responses for a short time
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CacheObserver is told about every cache lookup
type CacheObserver interface {
	StatsCacheLookup(hit bool)
}

// FineTotals is the response of the fine stat endpoint
type FineTotals struct {
	Total   int     `json:"total"`
	Revenue float64 `json:"revenue"`
}

// FineMonth compares this month's fines with last month's
type FineMonth struct {
	FineRise    int    `json:"fineRise"`
	CurrentFine int    `json:"currentFine"`
	Month       string `json:"month"`
}

// InsuranceTotals splits policies into settled and pending
type InsuranceTotals struct {
	Total   int     `json:"total"`
	Revenue float64 `json:"revenue"`
	Pending int     `json:"pending"`
}

// InspectionTotals is the response of the inspection stat endpoint
type InspectionTotals struct {
	Total   int     `json:"total"`
	Revenue float64 `json:"revenue"`
}

// InspectionMonth compares this month's inspections with last month's
type InspectionMonth struct {
	InspectionRise    int    `json:"inspectionRise"`
	CurrentInspection int    `json:"currentInspection"`
	Month             string `json:"month"`
}

// FireTotals counts fires with their casualties
type FireTotals struct {
	Total      int `json:"total"`
	Injuries   int `json:"injuries"`
	Fatalities int `json:"fatalities"`
}

// FireMonth compares this month's fires with last month's
type FireMonth struct {
	FireRise    int    `json:"fireRise"`
	CurrentFire int    `json:"currentFire"`
	Month       string `json:"month"`
}

// StatsSources are the repositories statistics are computed from
type StatsSources struct {
	Bookings    record.BookingRepository
	Fines       record.Repository[record.Fine]
	Insurances  record.Repository[record.Insurance]
	Inspections record.Repository[record.Inspection]
	Fires       record.Repository[record.Fire]
}

// StatsConfig configures a StatsService
type StatsConfig struct {
	Location *time.Location
	CacheTTL time.Duration
	Now      func() time.Time
}

// StatsService computes dashboard statistics under the caller's scope
type StatsService struct {
	src      StatsSources
	compiler *query.Compiler
	cache    Cache
	observer CacheObserver
	cfg      StatsConfig
	logger   *zap.Logger
}

// NewStatsService creates a StatsService. cache may be nil.
func NewStatsService(src StatsSources, cache Cache, cfg StatsConfig, logger *zap.Logger) *StatsService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		src:      src,
		compiler: query.NewCompiler(cfg.Location),
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// SetCacheObserver registers o to receive hit and miss notifications
func (s *StatsService) SetCacheObserver(o CacheObserver) {
	s.observer = o
}

func (s *StatsService) bounds() window.Bounds {
	return window.NewBounds(s.cfg.Now(), s.cfg.Location)
}

func bookingAt(b record.Booking) time.Time { return b.CreatedAt }

func bookingPrice(b record.Booking) decimal.Decimal {
	return decimal.NewFromFloat(b.Price)
}

// BookingCounts counts this year's bookings per cumulative window
func (s *StatsService) BookingCounts(ctx context.Context, actor access.Actor, params url.Values) (window.Buckets, error) {
	return cached(ctx, s, "bookings:stat", actor, params, func() (window.Buckets, error) {
		b := s.bounds()
		filter := ScopedFilter(s.compiler, actor, params)
		filter.Add(query.FieldCreatedAt, query.OpGte, b.StartOfYear)

		items, err := s.src.Bookings.FindAll(ctx, filter)
		if err != nil {
			return window.Buckets{}, err
		}
		return window.Aggregate(items, b, bookingAt, window.Count[record.Booking]), nil
	})
}

// BookingRevenue sums this year's paid booking prices per cumulative window
func (s *StatsService) BookingRevenue(ctx context.Context, actor access.Actor, params url.Values) (window.Buckets, error) {
	return cached(ctx, s, "bookings:rev", actor, params, func() (window.Buckets, error) {
		b := s.bounds()
		filter := ScopedFilter(s.compiler, actor, params)
		filter.Add(query.FieldCreatedAt, query.OpGte, b.StartOfYear).Add("paid", query.OpEq, true)

		items, err := s.src.Bookings.FindAll(ctx, filter)
		if err != nil {
			return window.Buckets{}, err
		}
		return window.Aggregate(items, b, bookingAt, bookingPrice), nil
	})
}

// FineTotals counts matching fines and sums their prices
func (s *StatsService) FineTotals(ctx context.Context, actor access.Actor, params url.Values) (FineTotals, error) {
	return cached(ctx, s, "fines:stat", actor, params, func() (FineTotals, error) {
		items, err := s.src.Fines.FindAll(ctx, ScopedFilter(s.compiler, actor, params))
		if err != nil {
			return FineTotals{}, err
		}
		revenue := decimal.Zero
		for _, f := range items {
			revenue = revenue.Add(decimal.NewFromFloat(f.Price))
		}
		return FineTotals{Total: len(items), Revenue: revenue.InexactFloat64()}, nil
	})
}

// FineMonth compares the number of fines issued this month to last month
func (s *StatsService) FineMonth(ctx context.Context, actor access.Actor, params url.Values) (FineMonth, error) {
	return cached(ctx, s, "fines:month", actor, params, func() (FineMonth, error) {
		m, err := s.monthOverMonth(ctx, s.src.Fines, actor, params)
		if err != nil {
			return FineMonth{}, err
		}
		return FineMonth{FineRise: m.rise, CurrentFine: m.current, Month: m.label}, nil
	})
}

// InsuranceTotals counts settled policies with their revenue and the
// number still pending
func (s *StatsService) InsuranceTotals(ctx context.Context, actor access.Actor, params url.Values) (InsuranceTotals, error) {
	return cached(ctx, s, "insurances:stat", actor, params, func() (InsuranceTotals, error) {
		items, err := s.src.Insurances.FindAll(ctx, ScopedFilter(s.compiler, actor, params))
		if err != nil {
			return InsuranceTotals{}, err
		}
		var out InsuranceTotals
		revenue := decimal.Zero
		for _, i := range items {
			if i.Settled() {
				out.Total++
				revenue = revenue.Add(decimal.NewFromFloat(i.Price))
				continue
			}
			out.Pending++
		}
		out.Revenue = revenue.InexactFloat64()
		return out, nil
	})
}

// InsuranceBars sums settled premiums (in thousands) per building
func (s *StatsService) InsuranceBars(ctx context.Context, actor access.Actor, params url.Values) ([]window.Amount, error) {
	return cached(ctx, s, "insurances:bar", actor, params, func() ([]window.Amount, error) {
		filter := ScopedFilter(s.compiler, actor, params)
		filter.Add("status", query.OpEq, string(record.InsuranceSuccess))

		items, err := s.src.Insurances.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		return window.GroupAmounts(items,
			func(i record.Insurance) string { return i.Building.Name },
			func(i record.Insurance) float64 { return i.Price },
		), nil
	})
}

// InsuranceShares breaks premiums down by policy status
func (s *StatsService) InsuranceShares(ctx context.Context, actor access.Actor, params url.Values) ([]window.Share, error) {
	return cached(ctx, s, "insurances:pie", actor, params, func() ([]window.Share, error) {
		items, err := s.src.Insurances.FindAll(ctx, ScopedFilter(s.compiler, actor, params))
		if err != nil {
			return nil, err
		}
		amounts := window.GroupAmounts(items,
			func(i record.Insurance) string { return string(i.Status) },
			func(i record.Insurance) float64 { return i.Price },
		)
		return window.Shares(amounts), nil
	})
}

// InsuranceSeries sums settled premiums (in thousands) per month of the
// current year up to the current month
func (s *StatsService) InsuranceSeries(ctx context.Context, actor access.Actor, params url.Values) ([]window.Amount, error) {
	return cached(ctx, s, "insurances:graph", actor, params, func() ([]window.Amount, error) {
		b := s.bounds()
		filter := ScopedFilter(s.compiler, actor, params)
		filter.Add("status", query.OpEq, string(record.InsuranceSuccess)).
			Add(query.FieldCreatedAt, query.OpGte, b.StartOfYear).
			Add(query.FieldCreatedAt, query.OpLte, b.EndOfMonth)

		items, err := s.src.Insurances.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		return window.MonthlySeries(items, b,
			func(i record.Insurance) time.Time { return i.CreatedAt },
			func(i record.Insurance) float64 { return i.Price },
		), nil
	})
}

// InspectionTotals counts matching inspections and sums their prices
func (s *StatsService) InspectionTotals(ctx context.Context, actor access.Actor, params url.Values) (InspectionTotals, error) {
	return cached(ctx, s, "inspections:stat", actor, params, func() (InspectionTotals, error) {
		items, err := s.src.Inspections.FindAll(ctx, ScopedFilter(s.compiler, actor, params))
		if err != nil {
			return InspectionTotals{}, err
		}
		revenue := decimal.Zero
		for _, i := range items {
			revenue = revenue.Add(decimal.NewFromFloat(i.Price))
		}
		return InspectionTotals{Total: len(items), Revenue: revenue.InexactFloat64()}, nil
	})
}

// InspectionShares breaks inspections down by outcome. Pending visits
// whose date has passed are counted as missed.
func (s *StatsService) InspectionShares(ctx context.Context, actor access.Actor, params url.Values) ([]window.Share, error) {
	return cached(ctx, s, "inspections:pie", actor, params, func() ([]window.Share, error) {
		items, err := s.src.Inspections.FindAll(ctx, ScopedFilter(s.compiler, actor, params))
		if err != nil {
			return nil, err
		}
		counts := []window.Amount{
			{Name: string(record.OutcomePending)},
			{Name: string(record.OutcomeComplete)},
			{Name: string(record.OutcomeMissed)},
		}
		at := s.cfg.Now()
		for i := range items {
			outcome := string(items[i].OutcomeAt(at))
			idx := slices.IndexFunc(counts, func(a window.Amount) bool { return a.Name == outcome })
			if idx < 0 {
				counts = append(counts, window.Amount{Name: outcome})
				idx = len(counts) - 1
			}
			counts[idx].Price++
		}
		return window.Shares(counts), nil
	})
}

// InspectionMonth compares the number of inspections booked this month to
// last month
func (s *StatsService) InspectionMonth(ctx context.Context, actor access.Actor, params url.Values) (InspectionMonth, error) {
	return cached(ctx, s, "inspections:month", actor, params, func() (InspectionMonth, error) {
		m, err := s.monthOverMonth(ctx, s.src.Inspections, actor, params)
		if err != nil {
			return InspectionMonth{}, err
		}
		return InspectionMonth{InspectionRise: m.rise, CurrentInspection: m.current, Month: m.label}, nil
	})
}

// FireTotals counts matching fires and sums their casualties
func (s *StatsService) FireTotals(ctx context.Context, actor access.Actor, params url.Values) (FireTotals, error) {
	return cached(ctx, s, "fires:stat", actor, params, func() (FireTotals, error) {
		items, err := s.src.Fires.FindAll(ctx, ScopedFilter(s.compiler, actor, params))
		if err != nil {
			return FireTotals{}, err
		}
		out := FireTotals{Total: len(items)}
		for _, f := range items {
			out.Injuries += f.Injuries
			out.Fatalities += f.Fatalities
		}
		return out, nil
	})
}

// FireMonth compares the number of fires reported this month to last month
func (s *StatsService) FireMonth(ctx context.Context, actor access.Actor, params url.Values) (FireMonth, error) {
	return cached(ctx, s, "fires:month", actor, params, func() (FireMonth, error) {
		m, err := s.monthOverMonth(ctx, s.src.Fires, actor, params)
		if err != nil {
			return FireMonth{}, err
		}
		return FireMonth{FireRise: m.rise, CurrentFire: m.current, Month: m.label}, nil
	})
}

type counter interface {
	Count(ctx context.Context, filter query.Filter) (int64, error)
}

type monthly struct {
	rise    int
	current int
	label   string
}

// monthOverMonth counts the records in scope created this calendar month
// and last, and the percentage change between them
func (s *StatsService) monthOverMonth(ctx context.Context, store counter, actor access.Actor, params url.Values) (monthly, error) {
	b := s.bounds()
	base := ScopedFilter(s.compiler, actor, params)

	cur, err := store.Count(ctx, between(base, b.StartOfMonth, b.EndOfMonth))
	if err != nil {
		return monthly{}, err
	}
	prev, err := store.Count(ctx, between(base, b.StartOfLastMonth, b.EndOfLastMonth))
	if err != nil {
		return monthly{}, err
	}
	return monthly{
		rise:    window.Rise(float64(cur), float64(prev)),
		current: int(cur),
		label:   b.MonthLabel,
	}, nil
}

// between copies base and bounds createdAt to [from, to]
func between(base query.Filter, from, to time.Time) query.Filter {
	out := query.Filter{Conditions: slices.Clone(base.Conditions)}
	out.Add(query.FieldCreatedAt, query.OpGte, from).Add(query.FieldCreatedAt, query.OpLte, to)
	return out
}

// cached serves endpoint results from the cache, keyed by endpoint, the
// resolved scope and the raw parameters. Cache failures never fail the call.
func cached[V any](ctx context.Context, s *StatsService, endpoint string, actor access.Actor, params url.Values, load func() (V, error)) (V, error) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return load()
	}

	key := cacheKey(endpoint, actor, params)
	var v V
	hit, err := s.cache.Get(ctx, key, &v)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
	}
	if s.observer != nil {
		s.observer.StatsCacheLookup(hit)
	}
	if hit {
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func cacheKey(endpoint string, actor access.Actor, params url.Values) string {
	var zone string
	if v := params[query.FieldZone]; len(v) > 0 {
		zone = v[0]
	}
	scope, _ := json.Marshal(access.Resolve(actor, zone))
	return endpoint + ":" + string(scope) + ":" + params.Encode()
}
