package access

import (
	"net/http"
	"testing"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrepareCreate(t *testing.T) {
	t.Run("non-admin zone and unit are forced", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Role: RoleZonalHead, Zone: "2", Unit: "3"}
		fields := PrepareCreate(actor, Fields{"zone": "9", "unit": "1", "price": 5000}, true)

		assert.Equal(t, "2", fields["zone"])
		assert.Equal(t, "3", fields["unit"])
		assert.Equal(t, 5000, fields["price"])
	})

	t.Run("unit left alone for kinds without unit", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Role: RoleOperator, Zone: "2", Unit: "3"}
		fields := PrepareCreate(actor, Fields{"unit": "1"}, false)

		assert.Equal(t, "2", fields["zone"])
		assert.Equal(t, "1", fields["unit"])
	})

	t.Run("non-admin cannot back-date", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Role: RoleBookingOfficer, Zone: "2"}
		fields := PrepareCreate(actor, Fields{"createdAt": "2023-01-05T09:00:00Z", "name": "Ada"}, false)

		_, hasCreatedAt := fields["createdAt"]
		assert.False(t, hasCreatedAt)
		assert.Equal(t, "Ada", fields["name"])
	})

	t.Run("admin may back-date", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Role: RoleStateAdmin}
		fields := PrepareCreate(actor, Fields{"createdAt": "2023-01-05T09:00:00Z"}, false)

		assert.Equal(t, "2023-01-05T09:00:00Z", fields["createdAt"])
	})

	t.Run("admin chooses zone", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Role: RoleStateAdmin, Zone: "1"}
		fields := PrepareCreate(actor, Fields{"zone": "12"}, true)

		assert.Equal(t, "12", fields["zone"])
		_, hasUnit := fields["unit"]
		assert.False(t, hasUnit)
	})

	t.Run("nil payload", func(t *testing.T) {
		actor := Actor{ID: uuid.New(), Role: RoleBookingOfficer, Zone: "5"}
		assert.Equal(t, "5", PrepareCreate(actor, nil, false)["zone"])
	})
}

func TestPrepareUpdate(t *testing.T) {
	officer := Actor{ID: uuid.New(), Role: RoleBookingOfficer, Zone: "5"}
	patch := PrepareUpdate(officer, Fields{"zone": "1", "name": "Musa"})
	_, hasZone := patch["zone"]
	assert.False(t, hasZone)
	assert.Equal(t, "Musa", patch["name"])

	admin := Actor{ID: uuid.New(), Role: RoleStateAdmin}
	assert.Equal(t, "1", PrepareUpdate(admin, Fields{"zone": "1"})["zone"])
}

func TestGuards(t *testing.T) {
	admin := Actor{Role: RoleStateAdmin}
	head := Actor{Role: RoleZonalHead}
	officer := Actor{Role: RoleBookingOfficer}
	observer := Actor{Role: RoleObserver}

	assert.NoError(t, AdminOnly(admin, http.MethodDelete))
	assert.ErrorIs(t, AdminOnly(head, http.MethodDelete), shared.ErrForbidden)

	assert.NoError(t, CanDownloadAccidentReports(head, http.MethodGet))
	assert.ErrorIs(t, CanDownloadAccidentReports(officer, http.MethodGet), shared.ErrForbidden)

	assert.NoError(t, CanDownloadBookingReports(officer, http.MethodGet))
	assert.ErrorIs(t, CanDownloadBookingReports(observer, http.MethodGet), shared.ErrForbidden)

	assert.ErrorIs(t, BlockBookingOfficerAdmin(officer, http.MethodGet), shared.ErrForbidden)
	assert.ErrorIs(t, BlockZonalHeadAdmin(head, http.MethodGet), shared.ErrForbidden)
	assert.NoError(t, BlockZonalHeadAdmin(admin, http.MethodGet))

	assert.NoError(t, ObserverReadOnly(observer, http.MethodGet))
	assert.ErrorIs(t, ObserverReadOnly(observer, http.MethodPost), shared.ErrForbidden)
	assert.NoError(t, ObserverReadOnly(officer, http.MethodPut))
}
