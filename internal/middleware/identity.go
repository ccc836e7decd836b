package middleware

import "github.com/labstack/echo/v4"

const emailKey = "email"

// CurrentEmail returns the email JWTAuth extracted, or "" for anonymous
// requests.
func CurrentEmail(c echo.Context) string {
	if v, ok := c.Get(emailKey).(string); ok {
		return v
	}
	return ""
}
