// Package seating generates the availability and category layout of
// the theater for one booking.
package seating

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

const (
	Rows    = 10
	Columns = 18

	// A cell is available when the drawn value exceeds this.
	unavailableShare = 0.2
)

const rowLetters = "ABCDEFGHIJ"

var ErrInvalidSeat = errors.New("seating: invalid seat")

// Source yields uniform values in [0, 1).  *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a randomly seeded source.
func NewSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededSource returns a deterministic source.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed))
}

// Cell is one seat position.  Unavailable cells carry no category.
type Cell struct {
	Available bool               `json:"available"`
	Category  model.SeatCategory `json:"category,omitempty"`
}

// Map is a generated layout.  It is read-only after Generate.
type Map struct {
	cells [Rows][Columns]Cell
}

// Generate draws every cell from src in row-major order.
func Generate(src Source) *Map {
	m := &Map{}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if src.Float64() > unavailableShare {
				m.cells[r][c] = Cell{Available: true, Category: Classify(r, c)}
			}
		}
	}
	return m
}

// Classify returns the category an available cell gets.  Rules are
// checked in order: rows F-H are vip, even columns of row J are love
// seats, the two ends of row A are disability seats.
func Classify(row, col int) model.SeatCategory {
	switch {
	case row >= 5 && row <= 7:
		return model.SeatVIP
	case row == 9 && col%2 == 0:
		return model.SeatLove
	case row == 0 && (col == 0 || col == Columns-1):
		return model.SeatDisability
	default:
		return model.SeatStandard
	}
}

// Cell returns the cell at (row, col).
func (m *Map) Cell(row, col int) (Cell, error) {
	if !inBounds(row, col) {
		return Cell{}, ErrInvalidSeat
	}
	return m.cells[row][col], nil
}

// Available reports whether (row, col) can be selected.  Out-of-range
// positions are unavailable.
func (m *Map) Available(row, col int) bool {
	c, err := m.Cell(row, col)
	return err == nil && c.Available
}

// Row is one rendered row of the layout.
type Row struct {
	Label string `json:"row"`
	Seats []Cell `json:"seats"`
}

// Layout returns the rows in display order.
func (m *Map) Layout() []Row {
	out := make([]Row, Rows)
	for r := 0; r < Rows; r++ {
		seats := make([]Cell, Columns)
		copy(seats, m.cells[r][:])
		out[r] = Row{Label: RowLabel(r), Seats: seats}
	}
	return out
}

// RowLabel returns the letter for a 0-based row index.
func RowLabel(row int) string {
	if row < 0 || row >= Rows {
		return ""
	}
	return rowLetters[row : row+1]
}

// RowIndex parses a row letter.
func RowIndex(label string) (int, bool) {
	if len(label) != 1 {
		return 0, false
	}
	for i := 0; i < Rows; i++ {
		if rowLetters[i] == label[0] {
			return i, true
		}
	}
	return 0, false
}

// Label renders a position as its display label, e.g. (2, 4) -> "C5".
func Label(row, col int) string {
	return RowLabel(row) + strconv.Itoa(col+1)
}

// ParseLabel is the inverse of Label.
func ParseLabel(label string) (row, col int, err error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
	}
	row, ok := RowIndex(label[:1])
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 || n > Columns {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSeat, label)
	}
	return row, n - 1, nil
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}
