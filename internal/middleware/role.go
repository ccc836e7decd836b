package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionSource reports the store's active session email.
type SessionSource interface {
	ActiveEmail(ctx context.Context) (string, error)
}

// RequireActiveSession admits a request only when the token's email is
// the store's active session.  The store has a single active user, so a
// token issued before another login or a logout is rejected.  It must
// run after JWTAuth.
func RequireActiveSession(sessions SessionSource, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email := CurrentEmail(c)
			if email == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
			}
			// Store failures are 500, not 401.
			active, err := sessions.ActiveEmail(c.Request().Context())
			if err != nil {
				log.Error("read active session", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			// A later login, a logout or an email change moves the active
			// key away from the token's subject.
			if active != email {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}
			return next(c)
		}
	}
}
