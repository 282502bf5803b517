package ledger

import (
	"fmt"
	"strings"
)

// Check verifies the invariants the engine maintains on a state, typically
// one read back from disk where it may have been edited by hand. All
// violations are collected and returned as *ValidationErrors.
func Check(s State) error {
	var errs []error
	add := func(collection string, index int, format string, args ...any) {
		errs = append(errs, &InvariantError{
			Collection: collection,
			Index:      index,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	seen := make(map[string]int, len(s.Inventory))
	for i, it := range s.Inventory {
		if first, ok := seen[it.Name]; ok {
			add("inventory", i, "duplicate item %q (first at %d)", it.Name, first)
		} else {
			seen[it.Name] = i
		}
		if !it.Quantity.IsPositive() {
			add("inventory", i, "item %q has non-positive quantity %s", it.Name, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			add("inventory", i, "item %q has negative unit price %s", it.Name, it.UnitPrice)
		}
	}

	for i, e := range s.Balance {
		if e.Sequence != i+1 {
			add("balance", i, "sequence number %d, expected %d", e.Sequence, i+1)
		}
		if e.Units.IsNegative() {
			add("balance", i, "negative units %s", e.Units)
		}
		if e.Units.IsZero() && TransactionTypeOf(e) != TransactionShippingCost {
			add("balance", i, "zero units on a %s entry", TransactionTypeOf(e))
		}
	}

	for i, sh := range s.Shipments {
		if sh.ID != i+1 {
			add("shipments", i, "shipment id %d, expected %d", sh.ID, i+1)
		}
		if strings.TrimSpace(sh.Destination) == "" {
			add("shipments", i, "shipment %d has no destination", sh.ID)
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}
