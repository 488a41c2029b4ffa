package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "not found",
			err:        shared.NewNotFoundError("Booking not found with id of x"),
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
			wantMsg:    "Booking not found with id of x",
		},
		{
			name:       "validation",
			err:        shared.NewValidationError("Invalid month"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
			wantMsg:    "Invalid month",
		},
		{
			name:       "forbidden",
			err:        shared.NewForbiddenError("Only State Admins can perform this action"),
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
			wantMsg:    "Only State Admins can perform this action",
		},
		{
			name:       "invalid state answers 400",
			err:        shared.NewDomainError(shared.CodeInvalidState, "Report is not ready for download. Status: generating"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidState,
			wantMsg:    "Report is not ready for download. Status: generating",
		},
		{
			name:       "wrapped upstream",
			err:        fmt.Errorf("generate: %w", shared.WrapDomainError(shared.CodeUpstream, "Report generation failed: disk full", errors.New("disk full"))),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeUpstream,
			wantMsg:    "Report generation failed: disk full",
		},
		{
			name:       "plain error is hidden",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
			wantMsg:    "Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/")
			c.Set(logger.GinRequestIDKey, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_Actor(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/")
	_, ok := h.actor(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = newTestContext(http.MethodGet, "/")
	want := access.Actor{ID: uuid.New(), Role: access.RoleOperator, Zone: "2"}
	middleware.SetActor(c, want)
	got, ok := h.actor(c)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok := h.pathID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := uuid.New()
	c, _ = newTestContext(http.MethodGet, "/")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.pathID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
