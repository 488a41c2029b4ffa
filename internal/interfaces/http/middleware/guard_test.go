package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newGuardRouter(actor *access.Actor, guards ...access.Guard) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if actor != nil {
			SetActor(c, *actor)
		}
	})
	router.Use(Guard(guards...))
	handler := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.GET("/r", handler)
	router.POST("/r", handler)
	return router
}

func TestGuard(t *testing.T) {
	observer := access.Actor{ID: uuid.New(), Role: access.RoleObserver, Zone: "1"}
	officer := access.Actor{ID: uuid.New(), Role: access.RoleBookingOfficer, Zone: "1"}
	admin := access.Actor{ID: uuid.New(), Role: access.RoleStateAdmin}

	tests := []struct {
		name   string
		actor  *access.Actor
		guards []access.Guard
		method string
		want   int
	}{
		{"observer may read", &observer, []access.Guard{access.ObserverReadOnly}, http.MethodGet, http.StatusNoContent},
		{"observer may not write", &observer, []access.Guard{access.ObserverReadOnly}, http.MethodPost, http.StatusForbidden},
		{"officer blocked from admin", &officer, []access.Guard{access.ObserverReadOnly, access.BlockBookingOfficerAdmin}, http.MethodGet, http.StatusForbidden},
		{"admin passes admin only", &admin, []access.Guard{access.AdminOnly}, http.MethodPost, http.StatusNoContent},
		{"officer downloads booking reports", &officer, []access.Guard{access.CanDownloadBookingReports}, http.MethodGet, http.StatusNoContent},
		{"no actor", nil, []access.Guard{access.AdminOnly}, http.MethodGet, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGuardRouter(tt.actor, tt.guards...)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/r", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGuard_Message(t *testing.T) {
	observer := access.Actor{ID: uuid.New(), Role: access.RoleObserver}
	router := newGuardRouter(&observer, access.ObserverReadOnly)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/r", nil))

	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	assert.Equal(t, "Observers have read-only access only", resp.Error.Message)
}
