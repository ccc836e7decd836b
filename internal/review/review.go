// Package review attaches ratings and reviews to past orders.
package review

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

var (
	ErrNoTarget       = errors.New("review: no order selected")
	ErrRatingRequired = errors.New("review: rating required")
)

// RatingStore persists a rating on one of the active user's orders.
type RatingStore interface {
	UpdateOrderRating(ctx context.Context, orderID int64, rating int, review string) (model.Order, error)
}

// Workflow has a single review slot: one order can be under review at a
// time and opening another replaces it.
type Workflow struct {
	store  RatingStore
	target *model.Order
}

func NewWorkflow(store RatingStore) *Workflow {
	return &Workflow{store: store}
}

// Open selects order as the review target.  The order is updated in
// place when a review is submitted.
func (w *Workflow) Open(order *model.Order) {
	w.target = order
}

// Close empties the slot without saving.
func (w *Workflow) Close() {
	w.target = nil
}

// Target returns the order under review.
func (w *Workflow) Target() (*model.Order, bool) {
	return w.target, w.target != nil
}

// Submit stores rating and the trimmed text on the target.  On success
// the target copy is refreshed from the store and the slot closes; on
// failure the slot stays open so the caller can retry.
func (w *Workflow) Submit(ctx context.Context, rating int, text string) error {
	if w.target == nil {
		return ErrNoTarget
	}
	if rating <= 0 {
		return ErrRatingRequired
	}
	updated, err := w.store.UpdateOrderRating(ctx, w.target.ID, rating, strings.TrimSpace(text))
	if err != nil {
		return err
	}
	*w.target = updated
	w.target = nil
	return nil
}
