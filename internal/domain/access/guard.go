package access

import (
	"net/http"
	"slices"

	"github.com/fieldops/backend/internal/domain/shared"
)

// Guard is a role check applied before any query runs
type Guard func(actor Actor, method string) error

// RequireRoles only admits the listed roles
func RequireRoles(message string, roles ...Role) Guard {
	return func(actor Actor, _ string) error {
		if slices.Contains(roles, actor.Role) {
			return nil
		}
		return shared.NewForbiddenError(message)
	}
}

// DenyRole rejects a single role
func DenyRole(role Role, message string) Guard {
	return func(actor Actor, _ string) error {
		if actor.Role == role {
			return shared.NewForbiddenError(message)
		}
		return nil
	}
}

var (
	// AdminOnly admits only state admins
	AdminOnly = RequireRoles("Only State Admins can perform this action", RoleStateAdmin)

	// BlockBookingOfficerAdmin keeps booking officers out of admin functions
	BlockBookingOfficerAdmin = DenyRole(RoleBookingOfficer, "Booking officers cannot access admin functions")

	// BlockZonalHeadAdmin keeps zonal heads out of admin functions
	BlockZonalHeadAdmin = DenyRole(RoleZonalHead, "Zonal heads cannot access admin functions")

	// CanDownloadAccidentReports admits state admins and zonal heads
	CanDownloadAccidentReports = RequireRoles(
		"Only State Admins and Zonal Heads can download accident reports",
		RoleStateAdmin, RoleZonalHead,
	)

	// CanDownloadBookingReports admits booking officers and above
	CanDownloadBookingReports = RequireRoles(
		"Unauthorized to download booking reports",
		RoleStateAdmin, RoleZonalHead, RoleBookingOfficer,
	)
)

// ObserverReadOnly rejects any non-GET request from an observer
func ObserverReadOnly(actor Actor, method string) error {
	if actor.IsReadOnly() && method != http.MethodGet && method != http.MethodHead {
		return shared.NewForbiddenError("Observers have read-only access only")
	}
	return nil
}
