package selection

// Kind is the interaction that fired on a target.
type Kind string

const (
	Click  Kind = "click"
	Change Kind = "change"
)

// Zone card controls addressable through ZoneTarget.
const (
	ControlSelect   = "select"
	ControlIncrease = "increase"
	ControlDecrease = "decrease"
	ControlQuantity = "quantity"
)

// Handler receives the value carried by an interaction (the raw input text
// for Change, empty for Click).
type Handler func(value string)

// Binder registers a handler for one target and interaction kind.
type Binder interface {
	On(target string, kind Kind, h Handler)
}

// SeatTarget addresses a seat element.
func SeatTarget(seatID string) string {
	return "seat/" + seatID
}

// ZoneCardTarget addresses a zone card as a whole (used for the selected mark).
func ZoneCardTarget(zoneID string) string {
	return "zone/" + zoneID
}

// ZoneTarget addresses one control inside a zone card.
func ZoneTarget(zoneID, control string) string {
	return "zone/" + zoneID + "/" + control
}

type binding struct {
	target string
	kind   Kind
}

// Dispatcher routes interactions to registered handlers. It is not safe for
// concurrent use; callers serialize dispatches per page session.
type Dispatcher struct {
	handlers map[binding]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[binding]Handler)}
}

func (d *Dispatcher) On(target string, kind Kind, h Handler) {
	d.handlers[binding{target: target, kind: kind}] = h
}

// Dispatch runs the handler bound to target and kind and reports whether one
// existed.
func (d *Dispatcher) Dispatch(target string, kind Kind, value string) bool {
	h, ok := d.handlers[binding{target: target, kind: kind}]
	if !ok {
		return false
	}
	h(value)
	return true
}

// Bound reports whether any handler is registered for target and kind.
func (d *Dispatcher) Bound(target string, kind Kind) bool {
	_, ok := d.handlers[binding{target: target, kind: kind}]
	return ok
}
