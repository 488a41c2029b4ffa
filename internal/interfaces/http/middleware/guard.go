package middleware

import (
	"errors"
	"net/http"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Guard runs role checks against the authenticated actor. The first
// failing check answers 403 with its message.
func Guard(guards ...access.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Not authorized to access this route", GetRequestID(c)))
			return
		}

		for _, g := range guards {
			if err := g(actor, c.Request.Method); err != nil {
				message := "Forbidden"
				var de *shared.DomainError
				if errors.As(err, &de) {
					message = de.Message
				}
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeForbidden, message, GetRequestID(c)))
				return
			}
		}
		c.Next()
	}
}
