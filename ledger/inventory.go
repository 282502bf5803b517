package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Inventory is the reconciler for stocked items. It is the only writer of
// the item collection and keeps items in insertion order.
type Inventory struct {
	items []InventoryItem
}

// NewInventory creates an inventory holding the given items. The slice is
// copied.
func NewInventory(items ...InventoryItem) *Inventory {
	return &Inventory{items: slices.Clone(items)}
}

// Get returns the item with the given name
func (inv *Inventory) Get(name string) (InventoryItem, bool) {
	i := inv.index(name)
	if i < 0 {
		return InventoryItem{}, false
	}
	return inv.items[i], true
}

// Items returns a copy of the items in insertion order
func (inv *Inventory) Items() []InventoryItem {
	return slices.Clone(inv.items)
}

// Len returns the number of distinct items on hand
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// IsEmpty returns true if nothing is on hand
func (inv *Inventory) IsEmpty() bool {
	return len(inv.items) == 0
}

func (inv *Inventory) index(name string) int {
	return slices.IndexFunc(inv.items, func(it InventoryItem) bool {
		return it.Name == name
	})
}

// CheckPurchase reports whether ApplyPurchase would succeed without touching
// the inventory.
func (inv *Inventory) CheckPurchase(name string, quantity, unitPrice decimal.Decimal) error {
	if quantity.IsNegative() {
		return &InvalidQuantityError{Field: "quantity", Value: quantity}
	}
	if unitPrice.IsNegative() {
		return &InvalidQuantityError{Field: "unit price", Value: unitPrice}
	}

	i := inv.index(name)
	if i < 0 {
		// A new item must start with something on hand.
		if quantity.IsZero() {
			return &InvalidQuantityError{Field: "quantity", Value: quantity}
		}
		return nil
	}

	if inv.items[i].Quantity.Add(quantity).IsZero() {
		return ErrDivisionUndefined
	}
	return nil
}

// ApplyPurchase merges a purchase into the inventory. An existing item gets
// its quantity increased and its unit price recomputed as the weighted
// average; an unknown item is appended with the next package number.
func (inv *Inventory) ApplyPurchase(name string, quantity, unitPrice decimal.Decimal, at time.Time) (InventoryItem, error) {
	if err := inv.CheckPurchase(name, quantity, unitPrice); err != nil {
		return InventoryItem{}, err
	}

	i := inv.index(name)
	if i < 0 {
		item := InventoryItem{
			Name:          name,
			AddedAt:       at,
			PackageNumber: len(inv.items) + 1,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
		}
		inv.items = append(inv.items, item)
		return item, nil
	}

	item := &inv.items[i]
	price, err := WeightedAverage(item.Quantity, item.UnitPrice, quantity, unitPrice)
	if err != nil {
		return InventoryItem{}, err
	}
	item.Quantity = item.Quantity.Add(quantity)
	item.UnitPrice = price
	return *item, nil
}

// CheckWithdrawal reports whether quantity can be taken out of the named
// item and returns the item as it is now.
func (inv *Inventory) CheckWithdrawal(name string, quantity decimal.Decimal) (InventoryItem, error) {
	i := inv.index(name)
	if i < 0 {
		return InventoryItem{}, &ItemNotFoundError{Name: name}
	}
	item := inv.items[i]
	if quantity.GreaterThan(item.Quantity) {
		return InventoryItem{}, &InsufficientQuantityError{
			Name:      name,
			Available: item.Quantity,
			Requested: quantity,
		}
	}
	if quantity.IsNegative() {
		return InventoryItem{}, &InvalidQuantityError{Field: "quantity", Value: quantity}
	}
	return item, nil
}

// ApplyWithdrawal takes quantity out of the named item. It returns the unit
// price in effect before the withdrawal and whether the item reached zero
// and was removed.
func (inv *Inventory) ApplyWithdrawal(name string, quantity decimal.Decimal) (decimal.Decimal, bool, error) {
	item, err := inv.CheckWithdrawal(name, quantity)
	if err != nil {
		return decimal.Zero, false, err
	}

	i := inv.index(name)
	remaining := item.Quantity.Sub(quantity)
	if remaining.IsZero() {
		inv.items = slices.Delete(inv.items, i, i+1)
		return item.UnitPrice, true, nil
	}

	inv.items[i].Quantity = remaining
	return item.UnitPrice, false, nil
}

// WeightedAverage returns (q1*p1 + q2*p2) / (q1+q2).
func WeightedAverage(q1, p1, q2, p2 decimal.Decimal) (decimal.Decimal, error) {
	total := q1.Add(q2)
	if total.IsZero() {
		return decimal.Zero, ErrDivisionUndefined
	}
	return q1.Mul(p1).Add(q2.Mul(p2)).Div(total), nil
}
