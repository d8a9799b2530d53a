package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Seat is one reserved seat of a seated event.
type Seat struct {
	ID       string          `json:"id"`
	EventID  string          `json:"event_id"`
	Row      string          `json:"row"`
	Number   int             `json:"number"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	// Available is false when the venue withdrew the seat from sale.
	Available bool `json:"available"`
}

// Label renders the seat as row followed by number, e.g. "B7".
func (s Seat) Label() string {
	return s.Row + strconv.Itoa(s.Number)
}
