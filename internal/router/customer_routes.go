package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/handler"
)

// RegisterCustomer registers the active user's profile and order
// endpoints under /v1 behind the given middleware.
func RegisterCustomer(e *echo.Echo, p *handler.ProfileHandler, o *handler.OrderHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)

	g.GET("/me", p.Me)
	g.PUT("/me", p.Update)
	g.GET("/me/stats", p.Stats)
	g.PUT("/me/:field", p.ChangeField)

	g.GET("/orders", o.List)
	g.GET("/orders/:id", o.Get)
	g.POST("/orders/:id/cancel", o.Cancel)
	g.POST("/orders/:id/pay", o.Pay)
	g.POST("/orders/:id/review", o.Review)
}
