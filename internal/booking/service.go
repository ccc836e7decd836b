package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/queue"
	"github.com/iliyamo/cinema-ticketing/internal/seating"
)

// OrderStore persists orders for the active user.
type OrderStore interface {
	CreateOrder(ctx context.Context, order model.Order) error
}

// IDSource yields order ids.
type IDSource interface {
	Next() int64
}

// Publisher receives order events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.OrderEvent) error
}

// Service creates booking sessions and holds what their checkout needs.
type Service struct {
	store  OrderStore
	ids    IDSource
	events Publisher
	log    *zap.Logger
	prices Prices
	now    func() time.Time
	source func() seating.Source
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSeatSource replaces the random source used for seat maps.
func WithSeatSource(f func() seating.Source) Option {
	return func(s *Service) { s.source = f }
}

// WithPrices replaces DefaultPrices.
func WithPrices(p Prices) Option {
	return func(s *Service) { s.prices = p }
}

// NewService builds a Service.  events and log may be nil.
func NewService(store OrderStore, ids IDSource, events Publisher, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:  store,
		ids:    ids,
		events: events,
		log:    log,
		prices: DefaultPrices,
		now:    time.Now,
		source: seating.NewSource,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Prices returns the rates sessions charge.
func (s *Service) Prices() Prices { return s.prices }

// NewSession starts a booking of movie for owner with a fresh seat map,
// the default cinema, today's date and the default start time.
func (s *Service) NewSession(owner string, movie Movie) *Session {
	now := s.now()
	c, _ := model.CinemaByID(DefaultCinemaID)
	return &Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Movie:     movie,
		CreatedAt: now,
		svc:       s,
		seats:     seating.Generate(s.source()),
		cinema:    &c,
		date:      now,
		clock:     DefaultTime,
	}
}

func (s *Service) publish(ctx context.Context, ev queue.OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish order event failed",
			zap.String("type", string(ev.Type)),
			zap.Int64("order_id", ev.OrderID),
			zap.Error(err),
		)
	}
}
