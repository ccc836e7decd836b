package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// Cinemas handles GET /v1/cinemas: the bookable venues and seat prices.
func Cinemas(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"cinemas": model.Cinemas(),
		"prices":  booking.DefaultPrices,
	})
}
