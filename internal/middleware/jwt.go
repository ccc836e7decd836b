package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/utils"
)

// JWTAuth validates the Bearer access token and stores its subject (the
// user's email) in the context under emailKey.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The header must read "Bearer <token>".  Anything else is
			// treated as an anonymous request.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			// Signature, algorithm and expiry are checked by
			// ParseAccessToken; the subject it returns is the email.
			email, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			// Handlers and RequireActiveSession read it back through
			// CurrentEmail.
			c.Set(emailKey, email)
			return next(c)
		}
	}
}
