package window

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a named money total, expressed in thousands
type Amount struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Share is an Amount with its cumulative percentage of the grand total
type Share struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Percentage float64 `json:"percentage"`
	Total      float64 `json:"total"`
}

var thousand = decimal.NewFromInt(1000)

// Thousands converts a price to thousands rounded to two decimals
func Thousands(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Div(thousand).Round(2)
}

// GroupAmounts sums per-record amounts (in thousands) by key. Groups keep
// the order in which their key first appeared.
func GroupAmounts[T any](items []T, key func(T) string, price func(T) float64) []Amount {
	sums := make(map[string]decimal.Decimal)
	var order []string

	for _, item := range items {
		k := key(item)
		sum, seen := sums[k]
		if !seen {
			order = append(order, k)
		}
		sums[k] = sum.Add(Thousands(price(item))).Round(2)
	}

	out := make([]Amount, 0, len(order))
	for _, k := range order {
		out = append(out, Amount{Name: k, Price: sums[k].InexactFloat64()})
	}
	return out
}

// Shares turns grouped amounts into a pie breakdown: entries are ranked by
// amount ascending, each gets the running total as a percentage of the
// grand total, and the result is presented by percentage descending.
func Shares(amounts []Amount) []Share {
	if len(amounts) == 0 {
		return []Share{}
	}

	sorted := append([]Amount(nil), amounts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})

	total := decimal.Zero
	for _, a := range sorted {
		total = total.Add(decimal.NewFromFloat(a.Price))
	}

	shares := make([]Share, 0, len(sorted))
	running := decimal.Zero
	hundred := decimal.NewFromInt(100)
	for _, a := range sorted {
		running = running.Add(decimal.NewFromFloat(a.Price))
		pct := decimal.Zero
		if !total.IsZero() {
			pct = running.Div(total).Mul(hundred)
		}
		shares = append(shares, Share{
			Name:       a.Name,
			Price:      a.Price,
			Percentage: pct.InexactFloat64(),
			Total:      total.InexactFloat64(),
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percentage > shares[j].Percentage
	})
	return shares
}

// MonthlySeries sums prices (in whole thousands) per month from January
// through the reference month. Records outside the reference year are
// ignored.
func MonthlySeries[T any](items []T, b Bounds, at func(T) time.Time, price func(T) float64) []Amount {
	loc := b.Location()
	series := make([]decimal.Decimal, b.MonthIndex+1)

	for _, item := range items {
		ts := at(item)
		if !b.InYear(ts) {
			continue
		}
		m := int(ts.In(loc).Month()) - 1
		if m > b.MonthIndex {
			continue
		}
		amount := decimal.NewFromFloat(price(item)).Div(thousand)
		series[m] = series[m].Add(amount).Round(0)
	}

	out := make([]Amount, 0, len(series))
	for i, sum := range series {
		out = append(out, Amount{Name: MonthLabels[i], Price: sum.InexactFloat64()})
	}
	return out
}
