package domain

import "time"

// Layout is how a venue sells an event: reserved seats or general-admission
// zones, never both.
type Layout string

const (
	LayoutSeated Layout = "seated"
	LayoutZoned  Layout = "zoned"
)

func (l Layout) Valid() bool {
	return l == LayoutSeated || l == LayoutZoned
}

// Event represents a ticketed event. Only published events are shown to
// buyers.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartsAt  time.Time `json:"starts_at"`
	Layout    Layout    `json:"layout"`
	Published bool      `json:"published"`
}

// Started reports whether the event has begun at now. Sales and
// cancellations close when it starts.
func (e Event) Started(now time.Time) bool {
	return !e.StartsAt.After(now)
}
