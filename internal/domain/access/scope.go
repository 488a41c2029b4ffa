package access

import (
	"slices"

	"github.com/google/uuid"
)

// Scope is the visibility predicate resolved for an actor. A zero Scope
// places no restriction on records.
type Scope struct {
	// Zones restricts records to these zone codes when non-empty
	Zones []string `json:"zones,omitempty"`
	// CreatedBy restricts records to those submitted by this actor
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}

// Unrestricted reports whether the scope matches every record
func (s Scope) Unrestricted() bool {
	return len(s.Zones) == 0 && s.CreatedBy == nil
}

// Allows reports whether a record with the given zone and creator is
// visible under the scope.
func (s Scope) Allows(zone string, createdBy uuid.UUID) bool {
	if len(s.Zones) > 0 && !slices.Contains(s.Zones, zone) {
		return false
	}
	if s.CreatedBy != nil && *s.CreatedBy != createdBy {
		return false
	}
	return true
}

// Resolve derives the scope predicate for an actor. requestedZone is an
// optional narrowing; "" and "all" mean no narrowing. Requests outside the
// actor's visibility fall back to the actor's own zone and never fail.
func Resolve(actor Actor, requestedZone string) Scope {
	narrow := requestedZone != "" && requestedZone != AllZones

	switch actor.Role {
	case RoleStateAdmin, RoleObserver:
		if narrow {
			return Scope{Zones: []string{requestedZone}}
		}
		return Scope{}

	case RoleZonalHead:
		if actor.Zone == "" {
			return Scope{Zones: []string{""}}
		}
		allowed := AnnexPair(actor.Zone)
		if narrow {
			if slices.Contains(allowed, requestedZone) {
				return Scope{Zones: []string{requestedZone}}
			}
			return Scope{Zones: []string{actor.Zone}}
		}
		return Scope{Zones: allowed}

	case RoleBookingOfficer:
		id := actor.ID
		return Scope{Zones: []string{actor.Zone}, CreatedBy: &id}

	default:
		return Scope{Zones: []string{actor.Zone}}
	}
}
