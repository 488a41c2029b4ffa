package report

import "strings"

// Type selects the column template and payment filter of a report
type Type string

const (
	TypeSnapshot     Type = "snapshot"
	TypeFinesAmounts Type = "fa"
	TypeBookedPaid   Type = "bp"
	TypeUnpaid       Type = "unp"
)

// AllTypes returns the report types in presentation order
func AllTypes() []Type {
	return []Type{TypeSnapshot, TypeFinesAmounts, TypeBookedPaid, TypeUnpaid}
}

// IsValid checks if the Type is a known report type
func (t Type) IsValid() bool {
	_, ok := templates[t]
	return ok
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Title returns the heading printed on the report
func (t Type) Title() string {
	if tpl, ok := templates[t]; ok {
		return tpl.Title
	}
	return ""
}

// PaidFilter returns the paid flag the bookings must carry, or nil when the
// report covers both paid and unpaid bookings
func (t Type) PaidFilter() *bool {
	var paid bool
	switch t {
	case TypeBookedPaid:
		paid = true
	case TypeUnpaid:
		paid = false
	default:
		return nil
	}
	return &paid
}

func typeList() string {
	names := make([]string, 0, len(AllTypes()))
	for _, t := range AllTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// Period is the reporting window granularity
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// AllPeriods returns the periods in presentation order
func AllPeriods() []Period {
	return []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}
}

// IsValid checks if the Period is a known period
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// String returns the string representation of Period
func (p Period) String() string {
	return string(p)
}

// Label returns the upper-case label used in titles and file names
func (p Period) Label() string {
	return strings.ToUpper(string(p))
}

// Status is the generation state of a report
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// AllStatuses returns every report status
func AllStatuses() []Status {
	return []Status{StatusPending, StatusGenerating, StatusCompleted, StatusFailed}
}

// IsValid checks if the Status is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusGenerating, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true once generation has finished either way
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusGenerating || target == StatusCompleted || target == StatusFailed
	case StatusGenerating:
		return target == StatusCompleted || target == StatusFailed
	default:
		return false
	}
}
