//go:build integration

package integration

import (
	"context"
	"net/url"
	"testing"
	"time"

	apprecord "github.com/fieldops/backend/internal/application/record"
	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/cache"
	"github.com/fieldops/backend/internal/infrastructure/persistence"
	"github.com/fieldops/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var lagos = mustLocation("Africa/Lagos")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func seedBooking(t *testing.T, repo *persistence.GormBookingRepository, zone, name string, price float64, paid bool, at time.Time, by uuid.UUID) record.Booking {
	t.Helper()
	b := record.Booking{
		Base:    record.Base{ID: uuid.New(), Zone: zone, CreatedBy: by, CreatedAt: at},
		Unit:    "1",
		Name:    name,
		Price:   price,
		Paid:    paid,
		BillRef: "BILL-" + name,
		Offence: []record.Offence{{Name: "Illegal parking", MdasID: "M1"}},
	}
	require.NoError(t, repo.Create(context.Background(), &b))
	return b
}

func TestBookingRepository_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	repo := persistence.NewGormBookingRepository(tdb.DB, lagos)

	head := testutil.TestActor(access.RoleZonalHead, "4")
	officer := testutil.TestActor(access.RoleBookingOfficer, "4")
	base := time.Date(2024, 7, 10, 9, 0, 0, 0, lagos)

	ada := seedBooking(t, repo, "4", "Ada Obi", 5000, false, base, officer.ID)
	seedBooking(t, repo, "4annex", "Bayo Ade", 7000, true, base.Add(time.Hour), head.ID)
	seedBooking(t, repo, "5", "Dapo Ola", 9000, true, base.Add(2*time.Hour), officer.ID)

	t.Run("zonal head scope covers the annex", func(t *testing.T) {
		f := query.Filter{}.WithScope(access.Resolve(head, ""))
		res, err := query.List[record.Booking](ctx, repo, f, query.ListOptions{Page: 1, Limit: 25})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		assert.Equal(t, "Bayo Ade", res.Data[0].Name)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		f := query.NewCompiler(lagos).Compile(map[string][]string{"_searchname": {"ADA"}})
		items, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, ada.ID, items[0].ID)
		assert.Equal(t, ada.Offence, items[0].Offence)
	})

	t.Run("out of scope lookup is not found", func(t *testing.T) {
		f := query.Filter{}.WithScope(access.Resolve(testutil.TestActor(access.RoleZonalHead, "5"), ""))
		_, err := repo.FindOne(ctx, ada.ID, f)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("mark paid flips once", func(t *testing.T) {
		changed, err := repo.MarkPaid(ctx, ada.BillRef)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = repo.MarkPaid(ctx, ada.BillRef)
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestStatsService_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	bookings := persistence.NewGormBookingRepository(tdb.DB, lagos)
	fines := persistence.NewGormFineRepository(tdb.DB, lagos)
	insurances := persistence.NewGormInsuranceRepository(tdb.DB, lagos)
	fires := persistence.NewGormFireRepository(tdb.DB, lagos)

	now := time.Date(2024, 7, 17, 12, 0, 0, 0, lagos)
	officer := testutil.TestActor(access.RoleBookingOfficer, "4")
	seedBooking(t, bookings, "4", "Today", 1000, true, now.Add(-time.Hour), officer.ID)
	seedBooking(t, bookings, "4", "Earlier", 2000, true, time.Date(2024, 7, 2, 9, 0, 0, 0, lagos), officer.ID)
	seedBooking(t, bookings, "4", "Unpaid", 4000, false, now.Add(-2*time.Hour), officer.ID)

	for _, at := range []time.Time{now.Add(-time.Hour), time.Date(2024, 7, 1, 0, 30, 0, 0, lagos), time.Date(2024, 6, 30, 23, 30, 0, 0, lagos)} {
		fire := record.Fire{Base: record.Base{ID: uuid.New(), Zone: "4", CreatedBy: officer.ID, CreatedAt: at}, Injuries: 1}
		require.NoError(t, fire.ApplyDefaults())
		require.NoError(t, fires.Create(ctx, &fire))
	}

	svc := apprecord.NewStatsService(apprecord.StatsSources{
		Bookings:    bookings,
		Fines:       fines,
		Insurances:  insurances,
		Inspections: persistence.NewGormInspectionRepository(tdb.DB, lagos),
		Fires:       fires,
	}, cache.NewInMemoryStatsCache(),
		apprecord.StatsConfig{Location: lagos, CacheTTL: time.Minute, Now: func() time.Time { return now }},
		zap.NewNop())

	counts, err := svc.BookingCounts(ctx, officer, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, counts.Today)
	assert.Equal(t, 3.0, counts.Month)

	revenue, err := svc.BookingRevenue(ctx, officer, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, revenue.Today)
	assert.Equal(t, 3000.0, revenue.Month)

	month, err := svc.FireMonth(ctx, officer, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, apprecord.FireMonth{FireRise: 100, CurrentFire: 2, Month: "Jul"}, month,
		"months are split on Lagos midnight")
}
