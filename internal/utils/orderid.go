package utils

import (
	"sync"
	"time"
)

// OrderIDs hands out numeric order ids derived from the millisecond
// clock.  When two ids are requested within the same millisecond the
// second one is bumped past the first, so ids stay unique within the
// process and still sort in creation order.
type OrderIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewOrderIDs returns a generator reading the wall clock.
func NewOrderIDs() *OrderIDs { return &OrderIDs{now: time.Now} }

// NewOrderIDsWithClock is NewOrderIDs with an injected clock.
func NewOrderIDsWithClock(now func() time.Time) *OrderIDs { return &OrderIDs{now: now} }

// Next returns the next id.
func (g *OrderIDs) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
