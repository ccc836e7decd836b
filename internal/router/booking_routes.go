package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/handler"
)

// RegisterBookings registers the booking session endpoints.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/bookings", mw...)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/seats", h.ToggleSeat)
	g.PUT("/:id/cinema", h.SelectCinema)
	g.PUT("/:id/showtime", h.SetShowtime)
	g.POST("/:id/checkout", h.Checkout)
}
