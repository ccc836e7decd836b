package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/catalog"
	"github.com/iliyamo/cinema-ticketing/internal/payment"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/review"
)

// statusFor maps domain errors to HTTP status codes.  Unknown errors are
// 500.
func statusFor(err error) int {
	var se *catalog.StatusError
	var fe payment.FieldErrors
	switch {
	case errors.Is(err, repository.ErrNoActiveSession),
		errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrDuplicateOrder),
		errors.Is(err, repository.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidStatus),
		errors.Is(err, repository.ErrInvalidRating),
		errors.Is(err, repository.ErrUnknownField),
		errors.Is(err, repository.ErrInvalidEmail),
		errors.Is(err, review.ErrRatingRequired),
		errors.Is(err, booking.ErrNoSeats),
		errors.Is(err, booking.ErrNoCinema),
		errors.Is(err, booking.ErrUnknownCinema),
		errors.Is(err, booking.ErrInvalidShowtime),
		errors.As(err, &fe):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": ...}.  Internal errors are logged and
// their text hidden.
func fail(c echo.Context, log *zap.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.JSON(code, echo.Map{"error": "internal error"})
	}
	if code == http.StatusBadGateway {
		log.Warn("catalog request failed", zap.Error(err))
		return c.JSON(code, echo.Map{"error": "catalog unavailable"})
	}
	var fe payment.FieldErrors
	if errors.As(err, &fe) {
		return c.JSON(code, echo.Map{"error": "invalid payment details", "fields": fe})
	}
	return c.JSON(code, echo.Map{"error": err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func paramInt64(c echo.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}

func paramInt(c echo.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	return n, err == nil && n > 0
}

func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	return n, err == nil && n >= 0
}
