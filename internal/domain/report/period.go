package report

import (
	"fmt"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/jinzhu/now"
)

// DateRange is an inclusive instant range
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// RangeRequest carries the optional period selectors of a generate request.
// Month accepts 1-12, and 0 as January for clients that send 0-based months.
type RangeRequest struct {
	Period Period
	Year   int
	Month  *int
	Week   int
	Day    string
}

// calendar returns a Monday-start calendar so explicit weeks are ISO weeks
func calendar(loc *time.Location) *now.Config {
	if loc == nil {
		loc = time.UTC
	}
	return &now.Config{
		WeekStartDay: time.Monday,
		TimeLocation: loc,
		TimeFormats:  now.TimeFormats,
	}
}

// CalculateRange resolves the reporting window for req, relative to ref
func CalculateRange(req RangeRequest, ref time.Time, loc *time.Location) (DateRange, error) {
	cal := calendar(loc)
	cur := cal.With(ref.In(cal.TimeLocation))
	year := req.Year
	if year == 0 {
		year = cur.Year()
	}

	switch req.Period {
	case PeriodDaily:
		if req.Day == "" {
			return DateRange{Start: cur.BeginningOfDay(), End: cur.EndOfDay()}, nil
		}
		day, err := cal.Parse(req.Day)
		if err != nil {
			return DateRange{}, shared.NewValidationError(fmt.Sprintf("Invalid day: %s", req.Day))
		}
		d := cal.With(day)
		return DateRange{Start: d.BeginningOfDay(), End: d.EndOfDay()}, nil

	case PeriodWeekly:
		if req.Week == 0 {
			return DateRange{Start: cur.BeginningOfWeek(), End: cur.EndOfWeek()}, nil
		}
		if req.Week < 1 || req.Week > 53 {
			return DateRange{}, shared.NewValidationError(fmt.Sprintf("Invalid week: %d", req.Week))
		}
		start := ISOWeekStart(year, req.Week, cal.TimeLocation)
		return DateRange{Start: start, End: cal.With(start).EndOfWeek()}, nil

	case PeriodMonthly:
		if req.Month == nil {
			return DateRange{Start: cur.BeginningOfMonth(), End: cur.EndOfMonth()}, nil
		}
		m := *req.Month
		switch {
		case m >= 1 && m <= 12:
			m--
		case m == 0:
		default:
			return DateRange{}, shared.NewValidationError(fmt.Sprintf("Invalid month: %d", *req.Month))
		}
		first := time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, cal.TimeLocation)
		return DateRange{Start: first, End: cal.With(first).EndOfMonth()}, nil

	case PeriodYearly:
		first := time.Date(year, time.January, 1, 0, 0, 0, 0, cal.TimeLocation)
		return DateRange{Start: first, End: cal.With(first).EndOfYear()}, nil
	}

	return DateRange{}, ErrInvalidPeriod
}

// ISOWeekStart returns the Monday that starts ISO week w of year
func ISOWeekStart(year, w int, loc *time.Location) time.Time {
	cal := calendar(loc)
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, cal.TimeLocation)
	return cal.With(jan4).BeginningOfWeek().AddDate(0, 0, 7*(w-1))
}

// WeekOption is a selectable week of a year
type WeekOption struct {
	Week  int    `json:"week"`
	Label string `json:"label"`
	Range string `json:"range"`
}

// Weeks lists the 52 selectable weeks of year
func Weeks(year int, loc *time.Location) []WeekOption {
	cal := calendar(loc)
	weeks := make([]WeekOption, 0, 52)
	for w := 1; w <= 52; w++ {
		start := ISOWeekStart(year, w, cal.TimeLocation)
		end := cal.With(start).EndOfWeek()
		weeks = append(weeks, WeekOption{
			Week:  w,
			Label: fmt.Sprintf("Week %d", w),
			Range: start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006"),
		})
	}
	return weeks
}

// MonthOption is a selectable month of a year
type MonthOption struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Months lists the twelve months of year, 1-based
func Months(year int) []MonthOption {
	months := make([]MonthOption, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, MonthOption{
			Month: int(m),
			Name:  m.String(),
			Label: fmt.Sprintf("%s %d", m, year),
		})
	}
	return months
}
