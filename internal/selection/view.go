package selection

import "github.com/shopspring/decimal"

// DefaultCurrencySymbol prefixes every rendered amount unless overridden.
const DefaultCurrencySymbol = "₹"

// FormatAmount renders the symbol immediately followed by the amount fixed to
// two decimal places: 450 becomes "₹450.00".
func FormatAmount(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

// Field names the hidden form inputs read by the booking form.
type Field string

const (
	FieldSeatID   Field = "seat_id"
	FieldZoneID   Field = "zone_id"
	FieldQuantity Field = "quantity"
)

// Slot names a text region of the summary block.
type Slot string

const (
	SlotSeatLabel    Slot = "seat_label"
	SlotSeatCategory Slot = "seat_category"
	SlotSeatPrice    Slot = "seat_price"
	SlotTotalPrice   Slot = "total_price"
	SlotZoneName     Slot = "zone_name"
	SlotZonePrice    Slot = "zone_price"
	SlotZoneQuantity Slot = "zone_quantity"
	SlotZoneTotal    Slot = "zone_total_price"
)

// View is the presentation surface the controller writes to.
type View interface {
	// MarkSelected toggles the "selected" state of a candidate, addressed by
	// its seat or zone card target.
	MarkSelected(target string, selected bool)
	SetField(f Field, value string)
	SetText(s Slot, text string)
	// ShowSummary reveals the summary block and hides the "nothing selected"
	// placeholder, or the reverse.
	ShowSummary(visible bool)
	EnableSubmit(enabled bool)
	SetQuantityInput(zoneID string, value int)
}

// State is a View that records what the page should display. A new State
// matches the page as first rendered: summary hidden, placeholder shown,
// submit disabled.
type State struct {
	Selected           map[string]bool  `json:"selected"`
	Fields             map[Field]string `json:"fields"`
	Texts              map[Slot]string  `json:"texts"`
	Quantities         map[string]int   `json:"quantities"`
	SummaryVisible     bool             `json:"summary_visible"`
	PlaceholderVisible bool             `json:"placeholder_visible"`
	SubmitEnabled      bool             `json:"submit_enabled"`
}

func NewState() *State {
	return &State{
		Selected:           make(map[string]bool),
		Fields:             make(map[Field]string),
		Texts:              make(map[Slot]string),
		Quantities:         make(map[string]int),
		PlaceholderVisible: true,
	}
}

func (s *State) MarkSelected(target string, selected bool) {
	if selected {
		s.Selected[target] = true
		return
	}
	delete(s.Selected, target)
}

func (s *State) SetField(f Field, value string) { s.Fields[f] = value }

func (s *State) SetText(slot Slot, text string) { s.Texts[slot] = text }

func (s *State) ShowSummary(visible bool) {
	s.SummaryVisible = visible
	s.PlaceholderVisible = !visible
}

func (s *State) EnableSubmit(enabled bool) { s.SubmitEnabled = enabled }

func (s *State) SetQuantityInput(zoneID string, value int) { s.Quantities[zoneID] = value }

// Clone returns a deep copy safe to hand out while the session keeps mutating.
func (s *State) Clone() State {
	out := State{
		Selected:           make(map[string]bool, len(s.Selected)),
		Fields:             make(map[Field]string, len(s.Fields)),
		Texts:              make(map[Slot]string, len(s.Texts)),
		Quantities:         make(map[string]int, len(s.Quantities)),
		SummaryVisible:     s.SummaryVisible,
		PlaceholderVisible: s.PlaceholderVisible,
		SubmitEnabled:      s.SubmitEnabled,
	}
	for k, v := range s.Selected {
		out.Selected[k] = v
	}
	for k, v := range s.Fields {
		out.Fields[k] = v
	}
	for k, v := range s.Texts {
		out.Texts[k] = v
	}
	for k, v := range s.Quantities {
		out.Quantities[k] = v
	}
	return out
}
