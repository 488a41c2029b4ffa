// Package record holds the field-operation record kinds that zone scoping,
// listing and statistics operate on.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the fields every record kind shares
type Base struct {
	ID        uuid.UUID `json:"_id"`
	Zone      string    `json:"zone,omitempty"`
	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Entity is implemented by pointers to every record kind
type Entity interface {
	Meta() *Base
}

// Meta returns the shared record fields
func (b *Base) Meta() *Base {
	return b
}

// Stamp assigns identity and ownership to a new record. A zero CreatedAt is
// set to now; an explicit one (back-dated field entry) is kept.
func (b *Base) Stamp(createdBy uuid.UUID, now time.Time) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedBy = createdBy
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
}

// Kind names a record collection
type Kind string

const (
	KindBooking    Kind = "booking"
	KindFine       Kind = "fine"
	KindInsurance  Kind = "insurance"
	KindCollision  Kind = "collision"
	KindInspection Kind = "inspection"
	KindFire       Kind = "fire"
)

// Title is the human label used in not-found messages
func (k Kind) Title() string {
	switch k {
	case KindBooking:
		return "Booking"
	case KindFine:
		return "Fine"
	case KindInsurance:
		return "Insurance"
	case KindCollision:
		return "Collision"
	case KindInspection:
		return "Inspection"
	case KindFire:
		return "Fire"
	default:
		return "Record"
	}
}
