package record

import "time"

// InspectionProgress tracks whether the site visit has happened
type InspectionProgress string

const (
	InspectionCompleted   InspectionProgress = "Completed"
	InspectionUncompleted InspectionProgress = "Uncompleted"
)

// InspectionOutcome is the result recorded against the appointment
type InspectionOutcome string

const (
	OutcomeComplete InspectionOutcome = "complete"
	OutcomePending  InspectionOutcome = "pending"
	OutcomeMissed   InspectionOutcome = "missed"
)

// InspectionTerm is how long an inspection certificate stays valid
const InspectionTerm = 30 * 24 * time.Hour

// Inspection is a paid building inspection
type Inspection struct {
	Base
	Building    string             `json:"building,omitempty"`
	Progress    InspectionProgress `json:"progress"`
	Comment     string             `json:"comment,omitempty"`
	Note        string             `json:"note,omitempty"`
	Requirement string             `json:"requirement,omitempty"`
	Address     string             `json:"address,omitempty"`
	State       string             `json:"state,omitempty"`
	Email       string             `json:"email,omitempty"`
	PhoneNo     string             `json:"phoneNo,omitempty"`
	Price       float64            `json:"price"`
	Status      InsuranceStatus    `json:"status"` // payment state, as for policies
	Complete    InspectionOutcome  `json:"complete"`
	Paid        bool               `json:"paid"`
	Attempts    int                `json:"attempts"`
	Date        time.Time          `json:"date"`
	Expiry      time.Time          `json:"expiry"`
}

// ApplyDefaults fills the fields a new inspection is booked with. The
// visit date defaults to the creation time and the certificate runs for
// InspectionTerm from it.
func (i *Inspection) ApplyDefaults() {
	if i.Progress == "" {
		i.Progress = InspectionUncompleted
	}
	if i.Status == "" {
		i.Status = InsurancePending
	}
	if i.Complete == "" {
		i.Complete = OutcomePending
	}
	if i.Date.IsZero() {
		i.Date = i.CreatedAt
	}
	if i.Expiry.IsZero() {
		i.Expiry = i.CreatedAt.Add(InspectionTerm)
	}
}

// OutcomeAt is the outcome as of at. A pending visit whose date has
// passed counts as missed.
func (i *Inspection) OutcomeAt(at time.Time) InspectionOutcome {
	if i.Complete == OutcomePending && i.Date.Before(at) {
		return OutcomeMissed
	}
	return i.Complete
}
