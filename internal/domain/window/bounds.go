// Package window computes calendar-aligned time windows in a fixed
// timezone and aggregates records into them.
package window

import (
	"time"
	// Embedded zone database so the operating timezone resolves on minimal images
	_ "time/tzdata"

	"github.com/jinzhu/now"
)

// DefaultTimezone is the operating region's timezone
const DefaultTimezone = "Africa/Lagos"

// MonthLabels are the short month names used in stats and series
var MonthLabels = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Bounds are the calendar boundaries around a reference instant
type Bounds struct {
	Reference        time.Time `json:"reference"`
	StartOfDay       time.Time `json:"startOfDay"`
	StartOfWeek      time.Time `json:"startOfWeek"`
	StartOfMonth     time.Time `json:"startOfMonth"`
	EndOfMonth       time.Time `json:"endOfMonth"`
	StartOfLastMonth time.Time `json:"startOfLastMonth"`
	EndOfLastMonth   time.Time `json:"endOfLastMonth"`
	StartOfYear      time.Time `json:"startOfYear"`
	EndOfYear        time.Time `json:"endOfYear"`
	MonthIndex       int       `json:"monthNo"`
	MonthLabel       string    `json:"month"`
	DaysInMonth      int       `json:"days"`
}

// LoadLocation resolves a timezone name, falling back to the operating
// timezone for an empty name.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

// Calendar returns a jinzhu/now configuration fixed to loc. Weeks start on
// Sunday.
func Calendar(loc *time.Location) *now.Config {
	if loc == nil {
		loc = time.UTC
	}
	return &now.Config{
		WeekStartDay: time.Sunday,
		TimeLocation: loc,
		TimeFormats:  now.TimeFormats,
	}
}

// At returns a calendar cursor positioned at t, read in loc
func At(t time.Time, loc *time.Location) *now.Now {
	cal := Calendar(loc)
	return cal.With(t.In(cal.TimeLocation))
}

// NewBounds computes the windows around ref in loc
func NewBounds(ref time.Time, loc *time.Location) Bounds {
	cur := At(ref, loc)
	startOfMonth := cur.BeginningOfMonth()
	last := At(startOfMonth.AddDate(0, -1, 0), loc)

	return Bounds{
		Reference:        cur.Time,
		StartOfDay:       cur.BeginningOfDay(),
		StartOfWeek:      cur.BeginningOfWeek(),
		StartOfMonth:     startOfMonth,
		EndOfMonth:       cur.EndOfMonth(),
		StartOfLastMonth: last.BeginningOfMonth(),
		EndOfLastMonth:   last.EndOfMonth(),
		StartOfYear:      cur.BeginningOfYear(),
		EndOfYear:        cur.EndOfYear(),
		MonthIndex:       int(cur.Month()) - 1,
		MonthLabel:       MonthLabels[cur.Month()-1],
		DaysInMonth:      cur.EndOfMonth().Day(),
	}
}

// Location returns the timezone the bounds were computed in
func (b Bounds) Location() *time.Location {
	return b.Reference.Location()
}

// InYear reports whether t falls inside the reference year
func (b Bounds) InYear(t time.Time) bool {
	return !t.Before(b.StartOfYear) && !t.After(b.EndOfYear)
}
