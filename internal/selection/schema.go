package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Data attribute names read from seat elements.
const (
	AttrSeatID   = "seat-id"
	AttrRow      = "row"
	AttrNumber   = "number"
	AttrPrice    = "price"
	AttrCategory = "category"
	AttrBooked   = "booked"
)

// Data attribute names read from zone cards.
const (
	AttrZoneID    = "zone-id"
	AttrName      = "name"
	AttrAvailable = "available"
	AttrSoldOut   = "sold-out"
	AttrQuantity  = "quantity"
)

var (
	ErrMissingAttribute = errors.New("missing attribute")
	ErrInvalidAttribute = errors.New("invalid attribute")
	ErrDuplicateItem    = errors.New("duplicate item")
)

// Element is one rendered candidate and its data attributes.
type Element struct {
	Data map[string]string `json:"data"`
}

// Surface is the rendered booking page as the controller sees it. At most one
// of the two regions is expected to be present.
type Surface struct {
	SeatingMap    *SeatingMap    `json:"seating_map,omitempty"`
	ZoneSelection *ZoneSelection `json:"zone_selection,omitempty"`
}

type SeatingMap struct {
	Seats []Element `json:"seats"`
}

type ZoneSelection struct {
	Zones []Element `json:"zones"`
}

// Seat is a reserved-seating candidate.
type Seat struct {
	ID       string          `json:"id"`
	Row      string          `json:"row"`
	Number   string          `json:"number"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Booked   bool            `json:"booked"`
}

// Label is the row followed by the seat number, e.g. "A12".
func (s Seat) Label() string {
	return s.Row + s.Number
}

// Zone is a general-admission candidate with a bounded capacity.
type Zone struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available int             `json:"available"`
	SoldOut   bool            `json:"sold_out"`
}

// Selectable reports whether the zone may receive selection controls.
func (z Zone) Selectable() bool {
	return !z.SoldOut && z.Available > 0
}

func parseSeat(el Element) (Seat, error) {
	var (
		s   Seat
		err error
	)
	if s.ID, err = required(el, AttrSeatID); err != nil {
		return Seat{}, err
	}
	if s.Row, err = required(el, AttrRow); err != nil {
		return Seat{}, err
	}
	if s.Number, err = required(el, AttrNumber); err != nil {
		return Seat{}, err
	}
	if s.Category, err = required(el, AttrCategory); err != nil {
		return Seat{}, err
	}
	if s.Price, err = price(el); err != nil {
		return Seat{}, err
	}
	if s.Booked, err = flag(el, AttrBooked); err != nil {
		return Seat{}, err
	}
	return s, nil
}

func parseZone(el Element) (Zone, int, error) {
	var (
		z   Zone
		err error
	)
	if z.ID, err = required(el, AttrZoneID); err != nil {
		return Zone{}, 0, err
	}
	if z.Name, err = required(el, AttrName); err != nil {
		return Zone{}, 0, err
	}
	if z.Price, err = price(el); err != nil {
		return Zone{}, 0, err
	}
	raw, err := required(el, AttrAvailable)
	if err != nil {
		return Zone{}, 0, err
	}
	z.Available, err = strconv.Atoi(raw)
	if err != nil || z.Available < 0 {
		return Zone{}, 0, fmt.Errorf("%w: %s=%q", ErrInvalidAttribute, AttrAvailable, raw)
	}
	if z.SoldOut, err = flag(el, AttrSoldOut); err != nil {
		return Zone{}, 0, err
	}

	qty := 1
	if v, ok := el.Data[AttrQuantity]; ok {
		qty = parseQuantity(v)
	}
	return z, qty, nil
}

func required(el Element, attr string) (string, error) {
	v, ok := el.Data[attr]
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingAttribute, attr)
	}
	return strings.TrimSpace(v), nil
}

func price(el Element) (decimal.Decimal, error) {
	raw, err := required(el, AttrPrice)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s=%q", ErrInvalidAttribute, AttrPrice, raw)
	}
	return d.Round(2), nil
}

// flag treats a missing or empty attribute as false, the way a bare boolean
// attribute is absent from an unbooked element.
func flag(el Element, attr string) (bool, error) {
	v, ok := el.Data[attr]
	if !ok || strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidAttribute, attr, v)
	}
	return b, nil
}
