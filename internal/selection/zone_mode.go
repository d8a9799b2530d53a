package selection

import (
	"fmt"
	"strconv"
)

func (c *Controller) initZones(elements []Element, binder Binder) error {
	seen := make(map[string]struct{}, len(elements))
	for i, el := range elements {
		zone, qty, err := parseZone(el)
		if err != nil {
			return elementError("zone", i, err)
		}
		if _, dup := seen[zone.ID]; dup {
			return elementError("zone", i, fmt.Errorf("%w: %s", ErrDuplicateItem, zone.ID))
		}
		seen[zone.ID] = struct{}{}
		if !zone.Selectable() {
			continue
		}

		card := &ZoneCard{Zone: zone, quantity: clampQuantity(qty, zone.Available)}
		c.zones = append(c.zones, card)
		c.zoneByID[card.ID] = card
		c.view.SetQuantityInput(card.ID, card.quantity)

		binder.On(ZoneTarget(card.ID, ControlSelect), Click, func(string) {
			c.SelectZone(card)
		})
		binder.On(ZoneTarget(card.ID, ControlIncrease), Click, func(string) {
			c.AdjustQuantity(card, 1)
		})
		binder.On(ZoneTarget(card.ID, ControlDecrease), Click, func(string) {
			c.AdjustQuantity(card, -1)
		})
		binder.On(ZoneTarget(card.ID, ControlQuantity), Change, func(value string) {
			c.EnterQuantity(card, value)
		})
	}
	return nil
}

// Zone returns the card of a selectable zone. Sold-out and unknown zones
// report false.
func (c *Controller) Zone(id string) (*ZoneCard, bool) {
	card, ok := c.zoneByID[id]
	return card, ok
}

// Zones lists the selectable zone cards in page order.
func (c *Controller) Zones() []*ZoneCard {
	return append([]*ZoneCard(nil), c.zones...)
}

// AdjustQuantity moves the card's quantity by delta, clamped to
// [1, Available].
func (c *Controller) AdjustQuantity(card *ZoneCard, delta int) {
	if !c.owns(card) {
		return
	}
	c.setQuantity(card, clampQuantity(card.quantity+delta, card.Available))
}

// EnterQuantity applies a directly typed quantity. Anything without a leading
// integer becomes 1; out-of-range values are clamped without complaint.
func (c *Controller) EnterQuantity(card *ZoneCard, raw string) {
	if !c.owns(card) {
		return
	}
	c.setQuantity(card, clampQuantity(parseQuantity(raw), card.Available))
}

// SelectZone makes card the only selected zone, taking its current quantity.
func (c *Controller) SelectZone(card *ZoneCard) {
	if !c.owns(card) {
		return
	}

	for _, other := range c.zones {
		c.view.MarkSelected(ZoneCardTarget(other.ID), false)
	}
	c.view.MarkSelected(ZoneCardTarget(card.ID), true)

	c.card = card
	c.sel = Selection{Zone: &card.Zone, Quantity: card.quantity}

	c.view.SetField(FieldZoneID, card.ID)
	c.view.SetField(FieldQuantity, strconv.Itoa(card.quantity))
	c.view.SetText(SlotZoneName, card.Name)
	c.view.SetText(SlotZonePrice, c.format(card.Price))
	c.view.SetText(SlotZoneQuantity, strconv.Itoa(card.quantity))
	c.view.SetText(SlotZoneTotal, c.format(c.sel.Total()))
	c.reveal()
}

func (c *Controller) setQuantity(card *ZoneCard, qty int) {
	card.quantity = qty
	c.view.SetQuantityInput(card.ID, qty)

	if c.card != card {
		return
	}
	c.sel.Quantity = qty
	c.view.SetField(FieldQuantity, strconv.Itoa(qty))
	c.view.SetText(SlotZoneQuantity, strconv.Itoa(qty))
	c.view.SetText(SlotZoneTotal, c.format(c.sel.Total()))
}

func (c *Controller) owns(card *ZoneCard) bool {
	return card != nil && c.zoneByID[card.ID] == card
}
