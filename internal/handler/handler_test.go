package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/catalog"
	"github.com/iliyamo/cinema-ticketing/internal/payment"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
	"github.com/iliyamo/cinema-ticketing/internal/review"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrNoActiveSession, http.StatusUnauthorized},
		{repository.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("lookup: %w", repository.ErrOrderNotFound), http.StatusNotFound},
		{&catalog.StatusError{Op: "get", StatusCode: http.StatusNotFound}, http.StatusNotFound},
		{&catalog.StatusError{Op: "list", StatusCode: http.StatusServiceUnavailable}, http.StatusBadGateway},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrInvalidTransition, http.StatusConflict},
		{repository.ErrInvalidRating, http.StatusUnprocessableEntity},
		{repository.ErrInvalidEmail, http.StatusUnprocessableEntity},
		{review.ErrRatingRequired, http.StatusUnprocessableEntity},
		{booking.ErrNoSeats, http.StatusUnprocessableEntity},
		{booking.ErrUnknownCinema, http.StatusUnprocessableEntity},
		{payment.FieldErrors{"cvv": "required"}, http.StatusUnprocessableEntity},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "%v", tc.err)
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/orders", nil), rec)

	require.NoError(t, fail(c, zap.New(core), errors.New("decode users: bad json")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

func TestFail_PaymentFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, fail(c, zap.NewNop(), payment.FieldErrors{"cvv": "cvv is required"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"invalid payment details","fields":{"cvv":"cvv is required"}}`, rec.Body.String())
}

func TestQueryInt(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=2&size=x&neg=-1", nil), httptest.NewRecorder())

	n, ok := queryInt(c, "page", 0)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = queryInt(c, "missing", 10)
	assert.True(t, ok)
	assert.Equal(t, 10, n)

	_, ok = queryInt(c, "size", 10)
	assert.False(t, ok)
	_, ok = queryInt(c, "neg", 10)
	assert.False(t, ok)
}

func TestCinemas(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/cinemas", nil), rec)

	require.NoError(t, Cinemas(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"prices":{`)
	assert.Contains(t, rec.Body.String(), "Knez Mihailova")
}
