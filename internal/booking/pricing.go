package booking

import "github.com/iliyamo/cinema-ticketing/internal/model"

// Prices holds per-seat rates in RSD.
type Prices struct {
	Standard int `json:"standard"`
	VIP      int `json:"vip"`
}

// DefaultPrices are the fixed ticket rates.
var DefaultPrices = Prices{Standard: 890, VIP: 1290}

// For returns the rate charged for a seat of category c.
func (p Prices) For(c model.SeatCategory) int {
	if c.Premium() {
		return p.VIP
	}
	return p.Standard
}
