package ledger

import (
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Report is a read-only view over a copy of the warehouse collections.
// Every method is a pure fold; nothing here mutates state.
type Report struct {
	state State
}

// NewReport creates a report over the given state. The state is copied.
func NewReport(s State) *Report {
	return &Report{state: State{
		Inventory: slices.Clone(s.Inventory),
		Balance:   slices.Clone(s.Balance),
		History:   slices.Clone(s.History),
		Shipments: slices.Clone(s.Shipments),
	}}
}

// TransactionRow pairs a balance entry with its derived type.
type TransactionRow struct {
	Entry BalanceEntry
	Type  TransactionType
}

// NetBalance returns the sum of every recorded amount.
func (r *Report) NetBalance() decimal.Decimal {
	return r.sum(func(BalanceEntry) bool { return true })
}

// IncomeTotal returns the sum of positive amounts.
func (r *Report) IncomeTotal() decimal.Decimal {
	return r.sum(func(e BalanceEntry) bool { return e.Amount.IsPositive() })
}

// ExpenseTotal returns the sum of negative amounts (a non-positive value).
func (r *Report) ExpenseTotal() decimal.Decimal {
	return r.sum(func(e BalanceEntry) bool { return e.Amount.IsNegative() })
}

// ShippingTotal returns the sum of shipping-cost entries (a non-positive
// value).
func (r *Report) ShippingTotal() decimal.Decimal {
	return r.sum(func(e BalanceEntry) bool {
		return TransactionTypeOf(e) == TransactionShippingCost
	})
}

func (r *Report) sum(include func(BalanceEntry) bool) decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.state.Balance {
		if include(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// InventorySnapshot returns the items on hand in insertion order. An empty
// result is a valid state.
func (r *Report) InventorySnapshot() []InventoryItem {
	return slices.Clone(r.state.Inventory)
}

// InventoryValue returns the total value of the stock on hand.
func (r *Report) InventoryValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range r.state.Inventory {
		total = total.Add(it.Value())
	}
	return total
}

// TransactionTable pairs every ledger entry with its classification.
func (r *Report) TransactionTable() []TransactionRow {
	rows := make([]TransactionRow, 0, len(r.state.Balance))
	for _, e := range r.state.Balance {
		rows = append(rows, TransactionRow{Entry: e, Type: TransactionTypeOf(e)})
	}
	return rows
}

// History returns the operation log.
func (r *Report) History() []HistoryRecord {
	return slices.Clone(r.state.History)
}

// Shipments returns the shipment log.
func (r *Report) Shipments() []ShipmentRecord {
	return slices.Clone(r.state.Shipments)
}
