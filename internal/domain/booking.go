package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusExpired   BookingStatus = "expired"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves one seat, or a quantity in one zone, until it is confirmed
// or ExpiresAt passes.
type Booking struct {
	ID             string
	EventID        string
	SeatID         string
	ZoneID         string
	Quantity       int
	TotalPrice     decimal.Decimal
	Status         BookingStatus
	ExpiresAt      time.Time
	IdempotencyKey string
	TicketCode     string
	// ConfirmKey is the idempotency key of the confirmation that sold it.
	ConfirmKey   string
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason string
	CreatedAt    time.Time
}

// Active reports whether the booking still holds inventory at now.
func (b Booking) Active(now time.Time) bool {
	switch b.Status {
	case BookingStatusConfirmed:
		return true
	case BookingStatusPending:
		return b.ExpiresAt.After(now)
	default:
		return false
	}
}
