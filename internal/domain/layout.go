package domain

// SeatAvailability is a seat as offered on the booking page.
type SeatAvailability struct {
	Seat
	// Booked is true when the seat is withdrawn, held by a pending booking or
	// sold.
	Booked bool `json:"booked"`
}

// ZoneAvailability is a zone with the capacity still open for booking.
type ZoneAvailability struct {
	Zone
	Remaining int `json:"remaining"`
}

// EventLayout is everything the booking page renders for one event.
type EventLayout struct {
	Event Event              `json:"event"`
	Seats []SeatAvailability `json:"seats,omitempty"`
	Zones []ZoneAvailability `json:"zones,omitempty"`
}
