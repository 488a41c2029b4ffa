package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/persistence"
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockDB_ReportDelete(t *testing.T) {
	db := NewMockDB(t)
	repo := persistence.NewGormReportRepository(db.DB)
	id := uuid.New()

	db.Mock.ExpectExec(`DELETE FROM "reports"`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	db.Mock.ExpectExec(`DELETE FROM "reports"`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), shared.ErrNotFound)
	db.ExpectationsWereMet(t)
}

func TestTestActor(t *testing.T) {
	a := TestActor(access.RoleZonalHead, "4")
	b := TestActor(access.RoleZonalHead, "4")
	c := TestActor(access.RoleZonalHead, "5")

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "4", a.Zone)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestTestContext_SetActor(t *testing.T) {
	tc := NewTestContext(t)
	actor := TestActor(access.RoleOperator, "2")
	tc.SetActor(actor)

	got, ok := middleware.GetActor(tc.Context)
	require.True(t, ok)
	assert.Equal(t, actor, got)
}

func TestRunHTTPTestCases(t *testing.T) {
	admin := TestActor(access.RoleStateAdmin, "")
	operator := TestActor(access.RoleOperator, "2")

	RunHTTPTestCases(t, middleware.Guard(access.AdminOnly), []HTTPTestCase{
		{
			Name:           "no actor",
			ExpectedStatus: http.StatusUnauthorized,
		},
		{
			Name:           "operator rejected",
			Actor:          &operator,
			ExpectedStatus: http.StatusForbidden,
			ExpectedBody:   map[string]any{"success": false},
			Validate: func(t *testing.T, tc *TestContext) {
				AssertErrorResponse(t, tc, "ERR_FORBIDDEN")
			},
		},
		{
			Name:           "admin passes",
			Actor:          &admin,
			ExpectedStatus: http.StatusOK,
		},
	})
}

func TestRunHTTPTestCase_Health(t *testing.T) {
	h := handler.NewSystemHandler("fieldops", "test", map[string]handler.HealthCheck{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})

	RunHTTPTestCase(t, h.Health, HTTPTestCase{
		Path:           "/health",
		ExpectedStatus: http.StatusServiceUnavailable,
		Validate: func(t *testing.T, tc *TestContext) {
			body := JSONResponseAs[struct {
				Data handler.HealthResponse `json:"data"`
			}](t, tc)
			assert.Equal(t, "degraded", body.Data.Status)
			assert.Equal(t, "connection refused", body.Data.Checks["database"])
		},
	})
}

func TestWaitForCondition(t *testing.T) {
	t.Run("condition met", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			time.Sleep(20 * time.Millisecond)
			close(done)
		}()

		ok := WaitForCondition(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, time.Second, 5*time.Millisecond)
		assert.True(t, ok)
	})

	t.Run("timeout", func(t *testing.T) {
		ok := WaitForCondition(t, func() bool { return false }, 30*time.Millisecond, 5*time.Millisecond)
		assert.False(t, ok)
	})
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, time.Minute)
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}
