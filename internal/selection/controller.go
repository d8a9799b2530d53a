// Package selection holds the seat and zone choice of one booking page
// session and derives its pricing summary.
//
// A Controller is built once per page from the rendered Surface. It detects
// whether the page is a seating map or a zone selection, binds a handler to
// every interactive candidate and, on each interaction, writes the summary,
// the hidden form fields and the submit state back to a View. Handlers run
// synchronously; a Controller must not be used from more than one goroutine
// at a time.
package selection

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode is the layout the page was rendered with.
type Mode string

const (
	ModeIdle Mode = "idle"
	ModeSeat Mode = "seat"
	ModeZone Mode = "zone"
)

// ZoneCard is a selectable zone with its own quantity input.
type ZoneCard struct {
	Zone
	quantity int
}

// Quantity is the card's current, always in-range input value.
func (c *ZoneCard) Quantity() int {
	return c.quantity
}

// Selection is the single active choice of the session. In seat mode only
// Seat is set; in zone mode Zone and Quantity are set together.
type Selection struct {
	Seat     *Seat `json:"seat,omitempty"`
	Zone     *Zone `json:"zone,omitempty"`
	Quantity int   `json:"quantity,omitempty"`
}

func (s Selection) Empty() bool {
	return s.Seat == nil && s.Zone == nil
}

// Total is the seat price, or the zone unit price times the quantity.
func (s Selection) Total() decimal.Decimal {
	switch {
	case s.Seat != nil:
		return s.Seat.Price
	case s.Zone != nil:
		return s.Zone.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
	default:
		return decimal.Zero
	}
}

// PricingSummary is derived from the Selection on every read.
type PricingSummary struct {
	Label     string          `json:"label"`
	Category  string          `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type Controller struct {
	mode   Mode
	view   View
	symbol string

	seats    []*Seat
	seatByID map[string]*Seat
	zones    []*ZoneCard
	zoneByID map[string]*ZoneCard

	sel  Selection
	card *ZoneCard
}

type Option func(*Controller)

// WithCurrencySymbol overrides DefaultCurrencySymbol for rendered amounts.
func WithCurrencySymbol(symbol string) Option {
	return func(c *Controller) {
		if symbol != "" {
			c.symbol = symbol
		}
	}
}

// New validates the surface, detects the mode and binds handlers for every
// selectable candidate. Booked seats and sold-out zones get no handlers. When
// neither region is present the controller stays idle.
func New(surface Surface, view View, binder Binder, opts ...Option) (*Controller, error) {
	if view == nil || binder == nil {
		return nil, errors.New("selection: view and binder are required")
	}
	c := &Controller{
		mode:     ModeIdle,
		view:     view,
		symbol:   DefaultCurrencySymbol,
		seatByID: make(map[string]*Seat),
		zoneByID: make(map[string]*ZoneCard),
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case surface.SeatingMap != nil:
		if err := c.initSeats(surface.SeatingMap.Seats, binder); err != nil {
			return nil, err
		}
		c.mode = ModeSeat
	case surface.ZoneSelection != nil:
		if err := c.initZones(surface.ZoneSelection.Zones, binder); err != nil {
			return nil, err
		}
		c.mode = ModeZone
	}
	return c, nil
}

func (c *Controller) Mode() Mode {
	return c.mode
}

// Selection returns a copy of the current choice.
func (c *Controller) Selection() Selection {
	out := Selection{Quantity: c.sel.Quantity}
	if c.sel.Seat != nil {
		s := *c.sel.Seat
		out.Seat = &s
	}
	if c.sel.Zone != nil {
		z := *c.sel.Zone
		out.Zone = &z
	}
	return out
}

// Summary derives the pricing summary from the current selection. It is the
// zero value while nothing is selected.
func (c *Controller) Summary() PricingSummary {
	switch {
	case c.sel.Seat != nil:
		return PricingSummary{
			Label:     c.sel.Seat.Label(),
			Category:  c.sel.Seat.Category,
			UnitPrice: c.sel.Seat.Price,
			Quantity:  1,
			Total:     c.sel.Total(),
		}
	case c.sel.Zone != nil:
		return PricingSummary{
			Label:     c.sel.Zone.Name,
			UnitPrice: c.sel.Zone.Price,
			Quantity:  c.sel.Quantity,
			Total:     c.sel.Total(),
		}
	default:
		return PricingSummary{}
	}
}

func (c *Controller) format(amount decimal.Decimal) string {
	return FormatAmount(c.symbol, amount)
}

// reveal is the tail shared by both modes once a selection exists.
func (c *Controller) reveal() {
	c.view.ShowSummary(true)
	c.view.EnableSubmit(true)
}

func elementError(kind string, i int, err error) error {
	return fmt.Errorf("selection: %s %d: %w", kind, i, err)
}
