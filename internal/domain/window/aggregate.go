package window

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Buckets hold cumulative totals: a record from today also counts toward
// the week, month and year, and a record from this week counts toward the
// month even when the week began last month.
type Buckets struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
}

// ValueFunc extracts the quantity a record contributes
type ValueFunc[T any] func(T) decimal.Decimal

// Count contributes one per record
func Count[T any](T) decimal.Decimal {
	return decimal.NewFromInt(1)
}

// Aggregate buckets items by timestamp into cumulative windows. Items
// outside the reference year are ignored.
func Aggregate[T any](items []T, b Bounds, at func(T) time.Time, value ValueFunc[T]) Buckets {
	var today, week, month, year decimal.Decimal

	for _, item := range items {
		ts := at(item)
		if !b.InYear(ts) {
			continue
		}
		v := value(item)
		switch {
		case !ts.Before(b.StartOfDay):
			today = today.Add(v)
			fallthrough
		case !ts.Before(b.StartOfWeek):
			week = week.Add(v)
			fallthrough
		case !ts.Before(b.StartOfMonth):
			month = month.Add(v)
			fallthrough
		default:
			year = year.Add(v)
		}
	}

	return Buckets{
		Today: today.InexactFloat64(),
		Week:  week.InexactFloat64(),
		Month: month.InexactFloat64(),
		Year:  year.InexactFloat64(),
	}
}

// Rise is the whole-percent change from previous to current. A zero
// previous value yields 0.
func Rise(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(math.Floor((current - previous) / previous * 100))
}
