package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator turns a bearer token into an actor
type Authenticator interface {
	Authenticate(token string) (access.Actor, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Authenticator Authenticator
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultAuthConfig returns the default authentication configuration
func DefaultAuthConfig(a Authenticator) AuthConfig {
	return AuthConfig{
		Authenticator: a,
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/api/v1/payments/callback",
		},
	}
}

// Authenticate validates the bearer token and stores the actor on the
// request for handlers and the request logger
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || token == "" {
			abortUnauthorized(c, cfg.Logger, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		actor, err := cfg.Authenticator.Authenticate(token)
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err, "Token validation failed")
			return
		}

		c.Set(ActorKey, actor)
		c.Set(logger.GinActorIDKey, actor.ID.String())

		reqLogger := logger.GetGinLogger(c)
		ctx, enriched := logger.WithActor(c.Request.Context(), reqLogger, actor.ID.String(), actor.Role.String(), actor.Zone)
		c.Set(logger.GinLoggerKey, enriched)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor returns the actor stored by Authenticate
func GetActor(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}

// SetActor stores actor on the context, for handler tests
func SetActor(c *gin.Context, actor access.Actor) {
	c.Set(ActorKey, actor)
}

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("Authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	text := "Not authorized to access this route"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code = dto.ErrCodeTokenExpired
		text = "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID),
		errors.Is(err, auth.ErrMissingRole),
		errors.Is(err, auth.ErrMissingZone):
		code = dto.ErrCodeTokenInvalid
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, text, GetRequestID(c)))
}
