package handler

import (
	"net/http"
	"net/url"
	"testing"

	apprecord "github.com/fieldops/backend/internal/application/record"
	"github.com/fieldops/backend/internal/domain/window"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatsRouter(svc *MockStatsService) *gin.Engine {
	h := NewStatsHandler(svc)
	router := gin.New()
	router.Use(withActor(testOfficer))
	router.GET("/bookings/stat", h.BookingCounts)
	router.GET("/bookings/rev", h.BookingRevenue)
	router.GET("/fines/month", h.FineMonth)
	router.GET("/insurances/stat/pie", h.InsuranceShares)
	router.GET("/inspections/stat", h.InspectionTotals)
	router.GET("/inspections/month", h.InspectionMonth)
	router.GET("/fires/month", h.FireMonth)
	return router
}

func TestStatsHandler(t *testing.T) {
	svc := &MockStatsService{}
	svc.On("BookingCounts", mock.Anything, testOfficer, url.Values{"zone": {"4"}}).
		Return(window.Buckets{Today: 1, Week: 2, Month: 3, Year: 4}, nil)
	svc.On("BookingRevenue", mock.Anything, testOfficer, url.Values{}).
		Return(window.Buckets{}, assert.AnError)
	svc.On("FineMonth", mock.Anything, testOfficer, url.Values{}).
		Return(apprecord.FineMonth{FineRise: 20, CurrentFine: 12, Month: "Jul"}, nil)
	svc.On("InsuranceShares", mock.Anything, testOfficer, url.Values{}).
		Return([]window.Share{}, nil)
	svc.On("InspectionTotals", mock.Anything, testOfficer, url.Values{"afterDateIns": {"2024-07-01"}}).
		Return(apprecord.InspectionTotals{Total: 3, Revenue: 17500}, nil)
	svc.On("InspectionMonth", mock.Anything, testOfficer, url.Values{}).
		Return(apprecord.InspectionMonth{InspectionRise: 50, CurrentInspection: 6, Month: "Jul"}, nil)
	svc.On("FireMonth", mock.Anything, testOfficer, url.Values{}).
		Return(apprecord.FireMonth{FireRise: -25, CurrentFire: 3, Month: "Jul"}, nil)
	router := newStatsRouter(svc)

	t.Run("counts", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/bookings/stat?zone=4", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"today":1,"week":2,"month":3,"year":4}}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/bookings/rev", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("fine month", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/fines/month", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.EqualValues(t, 20, data["fineRise"])
		assert.Equal(t, "Jul", data["month"])
	})

	t.Run("empty shares", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/insurances/stat/pie", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	})

	t.Run("inspection totals pass the query through", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/inspections/stat?afterDateIns=2024-07-01", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"total":3,"revenue":17500}}`, w.Body.String())
	})

	t.Run("inspection and fire months", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/inspections/month", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"inspectionRise":50,"currentInspection":6,"month":"Jul"}}`, w.Body.String())

		w = serve(router, http.MethodGet, "/fires/month", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"fireRise":-25,"currentFire":3,"month":"Jul"}}`, w.Body.String())
	})
}
