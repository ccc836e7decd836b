package model

import "time"

// OrderStatus is the lifecycle state of an order.  The only legal
// transition is ordered -> canceled.
type OrderStatus string

const (
	OrderStatusOrdered  OrderStatus = "ordered"
	OrderStatusCanceled OrderStatus = "canceled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusOrdered || s == OrderStatusCanceled
}

// Order records a confirmed seat reservation for one showtime.  The
// movie and cinema are copied by value at checkout so later catalog
// changes do not alter past orders.
//
// Fields:
//  ID           – numeric id, chronologically sortable.
//  MovieID      – catalog id of the movie.
//  Title        – movie title at checkout.
//  PosterURL    – resolved poster URL.
//  RunTime      – movie runtime in minutes.
//  StartDate    – show date (YYYY-MM-DD).
//  Time         – show time ("20:30").
//  Cinema       – cinema record embedded by value.
//  Count        – number of seats.
//  PricePerItem – total divided by count.
//  Seats        – 1-based seat labels such as "C5".
//  Status       – ordered or canceled.
//  Rating       – 1..5 once reviewed, nil before.
//  Review       – free-text review, empty before.
//  CreatedAt    – checkout timestamp.
type Order struct {
	ID           int64       `json:"id"`
	MovieID      int         `json:"movie_id"`
	Title        string      `json:"title"`
	PosterURL    string      `json:"poster_url,omitempty"`
	RunTime      int         `json:"run_time"`
	StartDate    string      `json:"start_date"`
	Time         string      `json:"time"`
	Cinema       Cinema      `json:"cinema"`
	Count        int         `json:"count"`
	PricePerItem float64     `json:"price_per_item"`
	Seats        []string    `json:"seats,omitempty"`
	Status       OrderStatus `json:"status"`
	Rating       *int        `json:"rating"`
	Review       string      `json:"review,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Total is the amount paid for the whole order.
func (o Order) Total() float64 {
	return o.PricePerItem * float64(o.Count)
}

// Liked reports whether the order carries a positive rating (above 3).
func (o Order) Liked() bool {
	return o.Rating != nil && *o.Rating > 3
}
