package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/catalog"
	"github.com/iliyamo/cinema-ticketing/internal/middleware"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/seating"
)

// BookingHandler drives booking sessions over HTTP.  Sessions live in
// memory and are private to the email that opened them.
type BookingHandler struct {
	Catalog  *catalog.Client
	Bookings *booking.Service
	Sessions *booking.Registry
	Log      *zap.Logger
}

type createBookingReq struct {
	MovieID int `json:"movie_id"`
}

type seatReq struct {
	Seat string `json:"seat"`
}

type cinemaReq struct {
	CinemaID int `json:"cinema_id"`
}

type showtimeReq struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type bookingView struct {
	ID       string         `json:"id"`
	Movie    booking.Movie  `json:"movie"`
	Cinema   *model.Cinema  `json:"cinema"`
	Date     string         `json:"date"`
	Time     string         `json:"time"`
	Selected []string       `json:"selected"`
	Summary  string         `json:"summary"`
	Total    int            `json:"total"`
	Prices   booking.Prices `json:"prices"`
	Seats    []seating.Row  `json:"seats"`
}

func (h *BookingHandler) view(s *booking.Session) bookingView {
	v := bookingView{
		ID:      s.ID,
		Movie:   s.Movie,
		Summary: s.SelectionSummary(),
		Total:   s.TotalPrice(),
		Prices:  h.Bookings.Prices(),
		Seats:   s.Layout(),
	}
	if c, ok := s.Cinema(); ok {
		v.Cinema = &c
	}
	v.Date, v.Time = s.Showtime()
	selected := s.Selected()
	v.Selected = make([]string, len(selected))
	for i, seat := range selected {
		v.Selected[i] = seat.Label()
	}
	return v
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.MovieID <= 0 {
		return badRequest(c, "movie_id required")
	}
	m, err := h.Catalog.GetByID(c.Request().Context(), req.MovieID)
	if err != nil {
		return fail(c, h.Log, err)
	}
	s := h.Bookings.NewSession(middleware.CurrentEmail(c), booking.MovieFrom(m))
	h.Sessions.Put(s)
	return c.JSON(http.StatusCreated, h.view(s))
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return notFoundBooking(c)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// ToggleSeat handles POST /v1/bookings/:id/seats with {"seat": "C5"}.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return notFoundBooking(c)
	}
	var req seatReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	// Labels are 1-based ("C5"); ParseLabel returns grid indices and
	// rejects anything off the 10x18 grid.
	row, col, err := seating.ParseLabel(req.Seat)
	if err != nil {
		return badRequest(c, "invalid seat")
	}
	// Unavailable seats cannot be toggled.  Say so instead of returning
	// an unchanged selection.
	if !s.Layout()[row].Seats[col].Available {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat unavailable"})
	}
	s.ToggleSeat(row, col)
	return c.JSON(http.StatusOK, h.view(s))
}

// SelectCinema handles PUT /v1/bookings/:id/cinema.
func (h *BookingHandler) SelectCinema(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return notFoundBooking(c)
	}
	var req cinemaReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := s.SelectCinema(req.CinemaID); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// SetShowtime handles PUT /v1/bookings/:id/showtime with a YYYY-MM-DD
// date and an HH:MM time.
func (h *BookingHandler) SetShowtime(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return notFoundBooking(c)
	}
	var req showtimeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}
	if err := s.SetShowtime(date, req.Time); err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, h.view(s))
}

// Checkout handles POST /v1/bookings/:id/checkout.  The session is closed
// once the order is stored.
func (h *BookingHandler) Checkout(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return notFoundBooking(c)
	}
	o, err := s.Checkout(c.Request().Context())
	if err != nil {
		return fail(c, h.Log, err)
	}
	// The selection was cleared by Checkout; the session is done.
	h.Sessions.Delete(s.ID)
	return c.JSON(http.StatusCreated, newOrderView(o))
}

func (h *BookingHandler) session(c echo.Context) (*booking.Session, bool) {
	return h.Sessions.Get(c.Param("id"), middleware.CurrentEmail(c))
}

func notFoundBooking(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
}
