package domain

import "github.com/shopspring/decimal"

// Zone represents a general-admission area with a fixed capacity and unit price.
type Zone struct {
	ID       string          `json:"id"`
	EventID  string          `json:"event_id"`
	Name     string          `json:"name"`
	Capacity int             `json:"capacity"`
	Price    decimal.Decimal `json:"price"`
}
