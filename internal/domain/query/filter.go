// Package query turns raw query-string parameters into typed filter
// expressions and paginates their results.
package query

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/jinzhu/now"
)

// Operator is a comparison applied by a Condition
type Operator string

const (
	OpEq       Operator = "eq"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
)

// comparisonOps are the only bracket operators promoted from nested query syntax
var comparisonOps = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// Reserved keys steer pagination and projection and never become conditions
var reservedKeys = map[string]struct{}{
	"select":   {},
	"sort":     {},
	"page":     {},
	"limit":    {},
	"populate": {},
}

const (
	prefixBool   = "_bool"
	prefixPlus   = "_plus"
	prefixSearch = "_search"

	keyAfterDate    = "afterDate"
	keyAfterDateIns = "afterDateIns"
	keyRangeStart   = "rangeStart"
	keyRangeEnd     = "rangeEnd"
)

// Field names a date-driven key writes to
const (
	FieldExpiry    = "expiry"
	FieldDate      = "date"
	FieldCreatedAt = "createdAt"
	FieldCreatedBy = "createdBy"
	FieldZone      = "zone"
)

var bracketKey = regexp.MustCompile(`^([A-Za-z0-9_.]+)\[([A-Za-z]+)\]$`)

// Condition is a single field predicate. Value is a string, bool,
// time.Time, []string or any value the store can bind.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Filter is a conjunction of conditions
type Filter struct {
	Conditions []Condition
}

// Add appends a condition and returns the filter for chaining
func (f *Filter) Add(field string, op Operator, value any) *Filter {
	f.Conditions = append(f.Conditions, Condition{Field: field, Op: op, Value: value})
	return f
}

// Find returns the first condition on field with op
func (f Filter) Find(field string, op Operator) (Condition, bool) {
	for _, c := range f.Conditions {
		if c.Field == field && c.Op == op {
			return c, true
		}
	}
	return Condition{}, false
}

// Has reports whether any condition targets field
func (f Filter) Has(field string) bool {
	for _, c := range f.Conditions {
		if c.Field == field {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the filter matches everything
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

// WithScope returns a copy of the filter constrained by an access scope
func (f Filter) WithScope(scope access.Scope) Filter {
	out := Filter{Conditions: append([]Condition(nil), f.Conditions...)}
	switch len(scope.Zones) {
	case 0:
	case 1:
		out.Add(FieldZone, OpEq, scope.Zones[0])
	default:
		out.Add(FieldZone, OpIn, append([]string(nil), scope.Zones...))
	}
	if scope.CreatedBy != nil {
		out.Add(FieldCreatedBy, OpEq, scope.CreatedBy.String())
	}
	return out
}

// Compiler builds filters from query-string parameters. Dates without an
// explicit offset are read in Location.
type Compiler struct {
	Location *time.Location
}

// NewCompiler creates a compiler reading naive dates in loc
func NewCompiler(loc *time.Location) *Compiler {
	if loc == nil {
		loc = time.UTC
	}
	return &Compiler{Location: loc}
}

// Compile converts a raw parameter bag into a Filter. It never fails:
// malformed dates and unknown bracket operators are dropped.
func (c *Compiler) Compile(params map[string][]string) Filter {
	var f Filter

	// Stable key order keeps compiled filters deterministic
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rangeStart, rangeEnd *time.Time
	remaining := make([]string, 0, len(keys))

	for _, key := range keys {
		value := first(params[key])
		switch {
		case strings.HasPrefix(key, prefixBool):
			if field := key[len(prefixBool):]; field != "" {
				f.Add(field, OpEq, value == "true")
			}
		case strings.HasPrefix(key, prefixPlus):
			if field := key[len(prefixPlus):]; field != "" {
				f.Add(field, OpEq, strings.TrimSpace(value)+"+")
			}
		case strings.HasPrefix(key, prefixSearch):
			if field := key[len(prefixSearch):]; field != "" && value != "" {
				f.Add(field, OpContains, value)
			}
		case key == keyAfterDate:
			if t, ok := c.parseDate(value); ok {
				f.Add(FieldExpiry, OpLte, t)
			}
		case key == keyAfterDateIns:
			if t, ok := c.parseDate(value); ok {
				f.Add(FieldDate, OpGte, t)
			}
		case key == keyRangeStart:
			if t, ok := c.parseDate(value); ok {
				rangeStart = &t
			}
		case key == keyRangeEnd:
			if t, ok := c.parseDate(value); ok {
				rangeEnd = &t
			}
		default:
			remaining = append(remaining, key)
		}
	}

	if rangeStart != nil {
		f.Add(FieldCreatedAt, OpGte, *rangeStart)
	}
	if rangeEnd != nil {
		f.Add(FieldCreatedAt, OpLte, *rangeEnd)
	}

	for _, key := range remaining {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		values := params[key]
		if m := bracketKey.FindStringSubmatch(key); m != nil {
			op, ok := comparisonOps[m[2]]
			if !ok {
				continue
			}
			if op == OpIn {
				f.Add(m[1], OpIn, splitList(values))
				continue
			}
			f.Add(m[1], op, first(values))
			continue
		}
		if len(values) > 1 {
			f.Add(key, OpIn, append([]string(nil), values...))
			continue
		}
		f.Add(key, OpEq, first(values))
	}

	return f
}

func (c *Compiler) parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}
	cfg := &now.Config{
		WeekStartDay: time.Sunday,
		TimeLocation: c.Location,
		TimeFormats:  now.TimeFormats,
	}
	t, err := cfg.Parse(value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
