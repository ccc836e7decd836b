package model

// SeatCategory describes the kind of seat in the theater layout.  VIP
// and love seats are charged the VIP rate; disability seats only carry
// accessibility meaning.
type SeatCategory string

const (
	SeatStandard   SeatCategory = "standard"
	SeatVIP        SeatCategory = "vip"
	SeatLove       SeatCategory = "love"
	SeatDisability SeatCategory = "disability"
)

// Premium reports whether the category is charged the VIP rate.
func (c SeatCategory) Premium() bool {
	return c == SeatVIP || c == SeatLove
}
