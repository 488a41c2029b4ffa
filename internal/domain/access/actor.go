// Package access derives record visibility and write rules from an
// actor's role and assigned zone.
package access

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the operational role of an authenticated actor
type Role string

const (
	RoleStateAdmin     Role = "state admin"
	RoleZonalHead      Role = "zonal head"
	RoleBookingOfficer Role = "booking officer"
	RoleOperator       Role = "operator"
	RoleObserver       Role = "observer"
)

// ParseRole normalizes role spellings. Both "zonal head" and "zonal_head"
// are accepted; unknown roles are returned as-is and get default scoping.
func ParseRole(s string) Role {
	r := strings.ToLower(strings.TrimSpace(s))
	return Role(strings.ReplaceAll(r, "_", " "))
}

// String returns the wire spelling of the role
func (r Role) String() string {
	return string(r)
}

// IsAdmin reports whether the role is the state administrator
func (r Role) IsAdmin() bool {
	return r == RoleStateAdmin
}

// Actor is the authenticated identity attached to a request
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
	Role Role      `json:"role"`
	Zone string    `json:"zone"`
	Unit string    `json:"unit,omitempty"`
}

// IsAdmin reports whether the actor is a state admin
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// IsReadOnly reports whether the actor may only issue reads
func (a Actor) IsReadOnly() bool {
	return a.Role == RoleObserver
}

// ZoneBound reports whether the actor's visibility depends on its zone
func (a Actor) ZoneBound() bool {
	return !a.IsAdmin() && a.Role != RoleObserver
}
