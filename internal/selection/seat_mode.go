package selection

import "fmt"

func (c *Controller) initSeats(elements []Element, binder Binder) error {
	seen := make(map[string]struct{}, len(elements))
	for i, el := range elements {
		seat, err := parseSeat(el)
		if err != nil {
			return elementError("seat", i, err)
		}
		if _, dup := seen[seat.ID]; dup {
			return elementError("seat", i, fmt.Errorf("%w: %s", ErrDuplicateItem, seat.ID))
		}
		seen[seat.ID] = struct{}{}
		if seat.Booked {
			continue
		}

		s := &seat
		c.seats = append(c.seats, s)
		c.seatByID[s.ID] = s
		binder.On(SeatTarget(s.ID), Click, func(string) {
			c.SelectSeat(s)
		})
	}
	return nil
}

// Seat returns the handle of a selectable seat. Booked and unknown seats
// report false.
func (c *Controller) Seat(id string) (*Seat, bool) {
	s, ok := c.seatByID[id]
	return s, ok
}

// Seats lists the selectable seats in page order.
func (c *Controller) Seats() []*Seat {
	return append([]*Seat(nil), c.seats...)
}

// SelectSeat makes s the only selected seat. Seats not handed out by this
// controller, which includes every booked seat, are ignored.
func (c *Controller) SelectSeat(s *Seat) {
	if s == nil || c.seatByID[s.ID] != s {
		return
	}

	for _, other := range c.seats {
		c.view.MarkSelected(SeatTarget(other.ID), false)
	}
	c.view.MarkSelected(SeatTarget(s.ID), true)

	c.sel = Selection{Seat: s}

	c.view.SetField(FieldSeatID, s.ID)
	c.view.SetText(SlotSeatLabel, s.Label())
	c.view.SetText(SlotSeatCategory, s.Category)
	c.view.SetText(SlotSeatPrice, c.format(s.Price))
	c.view.SetText(SlotTotalPrice, c.format(c.sel.Total()))
	c.reveal()
}
