// Package queue defines the order lifecycle events exchanged over the
// message broker and the consumer that records them.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// OrdersQueue is the durable queue every order event is routed to.
const OrdersQueue = "orders.events"

// EventType names an order lifecycle transition.
type EventType string

const (
	OrderCreated  EventType = "order.created"
	OrderCanceled EventType = "order.canceled"
	OrderPaid     EventType = "order.paid"
)

// OrderEvent carries enough of an order for consumers to log or notify
// without reading the user store.
type OrderEvent struct {
	Type    EventType `json:"type"`
	OrderID int64     `json:"order_id"`
	Email   string    `json:"email"`
	MovieID int       `json:"movie_id"`
	Title   string    `json:"title"`
	Cinema  string    `json:"cinema"`
	Seats   []string  `json:"seats"`
	Total   float64   `json:"total"`
	At      string    `json:"at"`
}

// NewOrderEvent snapshots o for the given transition.
func NewOrderEvent(t EventType, email string, o model.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:    t,
		OrderID: o.ID,
		Email:   email,
		MovieID: o.MovieID,
		Title:   o.Title,
		Cinema:  o.Cinema.Name,
		Seats:   append([]string(nil), o.Seats...),
		Total:   o.Total(),
		At:      at.UTC().Format(time.RFC3339),
	}
}

// Line renders the event as one log line.
func (e OrderEvent) Line() string {
	return fmt.Sprintf("[%s] %s | order_id=%d | email=%s | movie_id=%d | movie=%q | cinema=%q | total=%.2f | seats=[%s]\n",
		e.At, e.Type, e.OrderID, e.Email, e.MovieID, e.Title, e.Cinema, e.Total, strings.Join(e.Seats, ","))
}
