// Package booking holds the seat selection state of a booking and turns
// it into an order.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/catalog"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/seating"
)

const (
	DefaultCinemaID = 1
	DefaultTime     = "20:30"

	dateLayout = "2006-01-02"
)

var (
	ErrNoSeats         = errors.New("booking: no seats selected")
	ErrNoCinema        = errors.New("booking: no cinema selected")
	ErrUnknownCinema   = errors.New("booking: unknown cinema")
	ErrInvalidShowtime = errors.New("booking: invalid showtime")
)

// Movie is the part of a catalog movie an order keeps.
type Movie struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	RunTime   int    `json:"run_time"`
	PosterURL string `json:"poster_url"`
}

// MovieFrom extracts the booked movie from a catalog entry.
func MovieFrom(m catalog.Movie) Movie {
	return Movie{ID: m.MovieID, Title: m.Title, RunTime: m.RunTime, PosterURL: m.PosterURL()}
}

// Seat is a selected position, 0-based.
type Seat struct {
	Row      int                `json:"row"`
	Column   int                `json:"column"`
	Category model.SeatCategory `json:"category"`
}

// Label renders the seat 1-based, e.g. "C5".
func (s Seat) Label() string {
	return seating.Label(s.Row, s.Column)
}

// Session is one user's in-progress booking.  It is safe for concurrent
// use.
type Session struct {
	ID        string
	Owner     string
	Movie     Movie
	CreatedAt time.Time

	svc      *Service
	seats    *seating.Map
	mu       sync.Mutex
	selected []Seat
	cinema   *model.Cinema
	date     time.Time
	clock    string
}

// ToggleSeat adds or removes (row, col) from the selection.  Unavailable
// or out-of-range seats are ignored.  It reports whether the seat is
// selected afterwards.
func (s *Session) ToggleSeat(row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, err := s.seats.Cell(row, col)
	if err != nil || !cell.Available {
		return false
	}
	for i, sel := range s.selected {
		if sel.Row == row && sel.Column == col {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return false
		}
	}
	s.selected = append(s.selected, Seat{Row: row, Column: col, Category: cell.Category})
	return true
}

// Selected returns a copy of the selection in toggle order.
func (s *Session) Selected() []Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Seat(nil), s.selected...)
}

// SelectCinema picks one of the fixed cinemas.  An unknown id clears the
// choice and returns ErrUnknownCinema.
func (s *Session) SelectCinema(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := model.CinemaByID(id)
	if !ok {
		s.cinema = nil
		return ErrUnknownCinema
	}
	s.cinema = &c
	return nil
}

// Cinema returns the selected cinema, if any.
func (s *Session) Cinema() (model.Cinema, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cinema == nil {
		return model.Cinema{}, false
	}
	return *s.cinema, true
}

// SetShowtime sets the show date and the "HH:MM" start time.
func (s *Session) SetShowtime(date time.Time, clock string) error {
	if _, err := time.Parse("15:04", clock); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidShowtime, clock)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidShowtime)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = date
	s.clock = clock
	return nil
}

// Showtime returns the show date (YYYY-MM-DD) and start time.
func (s *Session) Showtime() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date.Format(dateLayout), s.clock
}

// SelectionSummary renders the selection grouped by row, e.g.
// "A1, 18; C3".  Rows are sorted by letter and seat numbers ascending.
func (s *Session) SelectionSummary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.selected)
}

// TotalPrice sums the rate of every selected seat.
func (s *Session) TotalPrice() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total()
}

// Layout returns the session's seat map.
func (s *Session) Layout() []seating.Row {
	return s.seats.Layout()
}

func (s *Session) total() int {
	sum := 0
	for _, seat := range s.selected {
		sum += s.svc.prices.For(seat.Category)
	}
	return sum
}

// Checkout stores an order for the selection through the service's
// store.  It needs at least one seat and a cinema.  Nothing changes on
// failure; on success the selection is cleared.
func (s *Session) Checkout(ctx context.Context) (model.Order, error) {
	order, err := s.placeOrder(ctx)
	if err != nil {
		return model.Order{}, err
	}
	// s.mu is released before publishing
	s.svc.publish(ctx, queue.NewOrderEvent(queue.OrderCreated, s.Owner, order, order.CreatedAt))
	return order, nil
}

func (s *Session) placeOrder(ctx context.Context) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) == 0 {
		return model.Order{}, ErrNoSeats
	}
	if s.cinema == nil {
		return model.Order{}, ErrNoCinema
	}

	labels := make([]string, len(s.selected))
	for i, seat := range s.selected {
		labels[i] = seat.Label()
	}
	order := model.Order{
		ID:           s.svc.ids.Next(),
		MovieID:      s.Movie.ID,
		Title:        s.Movie.Title,
		PosterURL:    s.Movie.PosterURL,
		RunTime:      s.Movie.RunTime,
		StartDate:    s.date.Format(dateLayout),
		Time:         s.clock,
		Cinema:       *s.cinema,
		Count:        len(s.selected),
		PricePerItem: float64(s.total()) / float64(len(s.selected)),
		Seats:        labels,
		Status:       model.OrderStatusOrdered,
		CreatedAt:    s.svc.now().UTC(),
	}
	if err := s.svc.store.CreateOrder(ctx, order); err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.selected = nil
	return order, nil
}

func summarize(selected []Seat) string {
	if len(selected) == 0 {
		return ""
	}
	byRow := make(map[string][]int)
	for _, seat := range selected {
		r := seating.RowLabel(seat.Row)
		byRow[r] = append(byRow[r], seat.Column+1)
	}
	rows := make([]string, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Strings(rows)

	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		nums := byRow[r]
		sort.Ints(nums)
		strs := make([]string, len(nums))
		for i, n := range nums {
			strs[i] = strconv.Itoa(n)
		}
		parts = append(parts, r+strings.Join(strs, ", "))
	}
	return strings.Join(parts, "; ")
}
