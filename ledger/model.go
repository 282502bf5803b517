package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked item. An item is present only while its
// quantity is positive; UnitPrice is the weighted average of every purchase
// merged into it since it was (re)created.
type InventoryItem struct {
	Name          string
	AddedAt       time.Time
	PackageNumber int
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
}

// Value returns quantity × unit price.
func (i InventoryItem) Value() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// BalanceEntry is one value-moving event in the ledger.
//
// Amount follows the sign convention: negative is an outflow (purchase cost
// or shipping fee), positive is an inflow (sale or shipment revenue).
// Shipping-cost entries carry zero units; every other entry has Units > 0.
type BalanceEntry struct {
	Name       string
	RecordedAt time.Time
	Sequence   int
	Units      decimal.Decimal
	Amount     decimal.Decimal
}

// HistoryRecord is an append-only description of a completed operation.
type HistoryRecord struct {
	RecordedAt time.Time
	Operation  string
	Details    string
}

// ShipmentRecord describes a shipment sent out of the warehouse.
type ShipmentRecord struct {
	ID           int
	ItemName     string
	ShippedAt    time.Time
	Destination  string
	ShippingCost decimal.Decimal
}

// TransactionType classifies a BalanceEntry for reporting.
type TransactionType int

const (
	TransactionUnknown TransactionType = iota
	TransactionSale
	TransactionPurchase
	TransactionShippingCost
)

// String returns the report label of the transaction type
func (t TransactionType) String() string {
	switch t {
	case TransactionSale:
		return "SALE"
	case TransactionPurchase:
		return "PURCHASE"
	case TransactionShippingCost:
		return "SHIPPING_COST"
	default:
		return "UNKNOWN"
	}
}

// TransactionTypeOf derives the type of an entry from its units and sign.
// A zero-unit outflow is a shipping cost; otherwise the sign decides.
func TransactionTypeOf(e BalanceEntry) TransactionType {
	switch {
	case e.Units.IsZero() && e.Amount.IsNegative():
		return TransactionShippingCost
	case e.Amount.IsPositive():
		return TransactionSale
	case e.Amount.IsNegative():
		return TransactionPurchase
	default:
		return TransactionUnknown
	}
}

// State is a detached copy of every collection held by a Warehouse.
type State struct {
	Inventory []InventoryItem
	Balance   []BalanceEntry
	History   []HistoryRecord
	Shipments []ShipmentRecord
}
