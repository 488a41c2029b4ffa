package query

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	DefaultSort  = "-createdAt"

	// MaxPage and MaxLimit keep (page-1)*limit well inside int range
	MaxPage  = 100_000
	MaxLimit = 1_000
)

// SortField orders results by one field
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions controls paging, ordering and projection of a list query
type ListOptions struct {
	Page     int
	Limit    int
	Sort     []SortField
	Select   []string
	Populate []string
}

// Offset returns the number of rows skipped before this page
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// ClampPaging replaces non-positive paging values with defaults and caps
// page and limit at MaxPage and MaxLimit
func ClampPaging(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return min(page, MaxPage), min(limit, MaxLimit)
}

// ParseListOptions reads page, limit, sort, select and populate from the
// raw parameters. Non-numeric or non-positive paging values use defaults;
// oversized ones are capped.
func ParseListOptions(params map[string][]string) ListOptions {
	page, limit := ClampPaging(
		positiveInt(first(params["page"]), DefaultPage),
		positiveInt(first(params["limit"]), DefaultLimit),
		DefaultLimit)
	opts := ListOptions{
		Page:  page,
		Limit: limit,
		Sort:  ParseSort(first(params["sort"])),
	}
	opts.Select = fieldList(first(params["select"]))
	opts.Populate = fieldList(first(params["populate"]))
	return opts
}

// ParseSort parses a comma-joined sort list; a leading "-" means descending.
// An empty list yields the default newest-first ordering.
func ParseSort(raw string) []SortField {
	var fields []SortField
	for _, part := range fieldList(raw) {
		if strings.HasPrefix(part, "-") {
			if name := strings.TrimPrefix(part, "-"); name != "" {
				fields = append(fields, SortField{Field: name, Desc: true})
			}
			continue
		}
		fields = append(fields, SortField{Field: strings.TrimPrefix(part, "+")})
	}
	if len(fields) == 0 {
		return []SortField{{Field: FieldCreatedAt, Desc: true}}
	}
	return fields
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func fieldList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
