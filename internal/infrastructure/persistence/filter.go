package persistence

import (
	"strconv"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/query"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FieldKind decides how a filter value is coerced before binding
type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindNumber
	KindTime
	KindUUID
)

// FieldSpec maps one API field to its column
type FieldSpec struct {
	Column string
	Kind   FieldKind
}

// FieldSet is the whitelist of filterable, sortable and selectable fields
// of one table, keyed by the API (JSON) field name.
type FieldSet map[string]FieldSpec

// baseFields are shared by every record table
var baseFields = FieldSet{
	"_id":       {Column: "id", Kind: KindUUID},
	"zone":      {Column: "zone", Kind: KindString},
	"createdBy": {Column: "created_by", Kind: KindUUID},
	"createdAt": {Column: "created_at", Kind: KindTime},
}

// with returns a copy of the base fields extended by extra
func (fs FieldSet) with(extra FieldSet) FieldSet {
	out := make(FieldSet, len(fs)+len(extra))
	for k, v := range fs {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Translator turns a query.Filter into GORM clauses against one table.
// Conditions on unknown fields and values that cannot be coerced to the
// column's kind are skipped.
type Translator struct {
	fields   FieldSet
	location *time.Location
}

// NewTranslator creates a translator. Naive date strings are read in loc.
func NewTranslator(fields FieldSet, loc *time.Location) *Translator {
	if loc == nil {
		loc = time.UTC
	}
	return &Translator{fields: fields, location: loc}
}

// Apply adds the filter's conditions to db
func (t *Translator) Apply(db *gorm.DB, f query.Filter) *gorm.DB {
	for _, c := range f.Conditions {
		spec, ok := t.fields[c.Field]
		if !ok {
			continue
		}
		db = t.condition(db, spec, c)
	}
	return db
}

func (t *Translator) condition(db *gorm.DB, spec FieldSpec, c query.Condition) *gorm.DB {
	col := clause.Column{Name: spec.Column}

	switch c.Op {
	case query.OpIn:
		raw, ok := c.Value.([]string)
		if !ok {
			return db
		}
		values := make([]any, 0, len(raw))
		for _, s := range raw {
			if v, ok := t.coerce(spec.Kind, s); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			// Every listed value was invalid for the column, nothing can match
			return db.Where("1 = 0")
		}
		return db.Where(clause.IN{Column: col, Values: values})
	case query.OpContains:
		s, ok := c.Value.(string)
		if !ok || spec.Kind != KindString {
			return db
		}
		return db.Where("LOWER("+spec.Column+") LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(s))+"%")
	}

	v, ok := t.coerce(spec.Kind, c.Value)
	if !ok {
		return db
	}
	switch c.Op {
	case query.OpEq:
		return db.Where(clause.Eq{Column: col, Value: v})
	case query.OpGt:
		return db.Where(clause.Gt{Column: col, Value: v})
	case query.OpGte:
		return db.Where(clause.Gte{Column: col, Value: v})
	case query.OpLt:
		return db.Where(clause.Lt{Column: col, Value: v})
	case query.OpLte:
		return db.Where(clause.Lte{Column: col, Value: v})
	default:
		return db
	}
}

func (t *Translator) coerce(kind FieldKind, value any) (any, bool) {
	switch v := value.(type) {
	case string:
		return t.coerceString(kind, v)
	case bool:
		switch kind {
		case KindBool:
			return v, true
		case KindString:
			return strconv.FormatBool(v), true
		}
	case time.Time:
		if kind == KindTime {
			return v.UTC(), true
		}
	case float64:
		if kind == KindNumber {
			return v, true
		}
	case uuid.UUID:
		if kind == KindUUID {
			return v, true
		}
	}
	return nil, false
}

func (t *Translator) coerceString(kind FieldKind, s string) (any, bool) {
	switch kind {
	case KindString:
		return s, true
	case KindBool:
		b, err := strconv.ParseBool(s)
		return b, err == nil
	case KindNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	case KindUUID:
		id, err := uuid.Parse(s)
		return id, err == nil
	case KindTime:
		s = strings.TrimSpace(s)
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts.UTC(), true
		}
		cfg := &now.Config{TimeLocation: t.location, TimeFormats: now.TimeFormats}
		ts, err := cfg.Parse(s)
		return ts.UTC(), err == nil
	}
	return nil, false
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Order applies the whitelisted sort fields. Unknown fields are ignored;
// when none remain the newest records come first.
func (t *Translator) Order(db *gorm.DB, sort []query.SortField) *gorm.DB {
	applied := false
	for _, s := range sort {
		spec, ok := t.fields[s.Field]
		if !ok {
			continue
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: spec.Column}, Desc: s.Desc})
		applied = true
	}
	if !applied {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true})
	}
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

// Select restricts the projection to whitelisted fields. The id column is
// always included; an empty or fully unknown list selects every column.
func (t *Translator) Select(db *gorm.DB, fields []string) *gorm.DB {
	if len(fields) == 0 {
		return db
	}
	cols := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, f := range fields {
		spec, ok := t.fields[f]
		if !ok || seen[spec.Column] {
			continue
		}
		seen[spec.Column] = true
		cols = append(cols, spec.Column)
	}
	if len(cols) == 1 {
		return db
	}
	return db.Select(cols)
}
