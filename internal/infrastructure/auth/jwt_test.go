package auth

import (
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *JWTService {
	return NewJWTService(config.JWTConfig{Secret: "test-secret-key-that-is-long-enough", Issuer: "fieldops"})
}

func TestSignAndAuthenticate(t *testing.T) {
	svc := newService()
	actor := access.Actor{ID: uuid.New(), Name: "Ada", Role: access.RoleZonalHead, Zone: "zone 4"}

	token, err := svc.Sign(actor, time.Hour)
	require.NoError(t, err)

	got, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestAuthenticate_NormalizesRole(t *testing.T) {
	svc := newService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fieldops",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.NewString(),
		Role:   "Booking_Officer",
		Zone:   "zone 1",
		Unit:   "vio",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	require.NoError(t, err)

	actor, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, access.RoleBookingOfficer, actor.Role)
	assert.Equal(t, "vio", actor.Unit)
}

func TestValidate_Errors(t *testing.T) {
	svc := newService()
	actor := access.Actor{ID: uuid.New(), Role: access.RoleObserver, Zone: "zone 2"}

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Sign(actor, -time.Minute)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret", Issuer: "fieldops"})
		token, err := other.Sign(actor, time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-that-is-long-enough", Issuer: "someone-else"})
		token, err := other.Sign(actor, time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing role", func(t *testing.T) {
		token, err := svc.Sign(access.Actor{ID: uuid.New()}, time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrMissingRole)
	})

	t.Run("bad user id", func(t *testing.T) {
		claims := &Claims{UserID: "nope", Role: "operator"}
		claims.Issuer = "fieldops"
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)
		_, err = svc.Authenticate(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestAuthenticate_ZoneRequiredForZoneBoundRoles(t *testing.T) {
	svc := newService()

	tests := []struct {
		role    access.Role
		zone    string
		wantErr error
	}{
		{access.RoleZonalHead, "", ErrMissingZone},
		{access.RoleZonalHead, "   ", ErrMissingZone},
		{access.RoleBookingOfficer, "", ErrMissingZone},
		{access.RoleOperator, "", ErrMissingZone},
		{access.RoleStateAdmin, "", nil},
		{access.RoleObserver, "", nil},
		{access.RoleZonalHead, "4", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.zone, func(t *testing.T) {
			token, err := svc.Sign(access.Actor{ID: uuid.New(), Role: tt.role, Zone: tt.zone}, time.Hour)
			require.NoError(t, err)

			actor, err := svc.Authenticate(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, actor.Role)
		})
	}
}
