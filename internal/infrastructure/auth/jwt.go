// Package auth verifies bearer tokens issued by the identity service and
// maps their claims onto an access.Actor.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user id in claims")
	ErrMissingRole      = errors.New("missing role in claims")
	ErrMissingZone      = errors.New("missing zone in claims")
)

// Claims are the custom claims carried by an access token
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	Zone   string `json:"zone"`
	Unit   string `json:"unit,omitempty"`
}

// Actor converts validated claims into the request identity
func (c *Claims) Actor() (access.Actor, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return access.Actor{}, ErrInvalidClaims
	}
	actor := access.Actor{
		ID:   id,
		Name: c.Name,
		Role: access.ParseRole(c.Role),
		Zone: strings.TrimSpace(c.Zone),
		Unit: c.Unit,
	}
	if actor.Zone == "" && actor.ZoneBound() {
		return access.Actor{}, ErrMissingZone
	}
	return actor, nil
}

// JWTService validates HS256 tokens
type JWTService struct {
	secret []byte
	issuer string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Validate parses tokenString and returns its claims
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if claims.Role == "" {
		return nil, ErrMissingRole
	}
	return claims, nil
}

// Authenticate validates tokenString and returns the actor it names
func (s *JWTService) Authenticate(tokenString string) (access.Actor, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return access.Actor{}, err
	}
	return claims.Actor()
}

// Sign issues a token for actor. Production tokens come from the identity
// service; this exists for tooling and tests sharing the secret.
func (s *JWTService) Sign(actor access.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   actor.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: actor.ID.String(),
		Name:   actor.Name,
		Role:   actor.Role.String(),
		Zone:   actor.Zone,
		Unit:   actor.Unit,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
