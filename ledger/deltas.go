package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Delta Architecture
//
// Validators compute the complete set of mutations an operation will make
// and return it as a delta; nothing is touched until the delta is applied.
// Applying a validated delta cannot fail, which is what makes an operation
// all-or-nothing: either every collection advances together or, when
// validation fails, none of them change.

// PurchaseDelta is a validated purchase.
type PurchaseDelta struct {
	ItemName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Cost      decimal.Decimal // quantity × unit price, recorded as an outflow
}

// String returns a human-readable representation of the purchase
func (d *PurchaseDelta) String() string {
	return fmt.Sprintf("purchase %s × %s @ %s (cost %s)",
		d.Quantity.String(), d.ItemName, d.UnitPrice.String(), d.Cost.String())
}

// SaleDelta is a validated sale.
type SaleDelta struct {
	ItemName    string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal // price per unit the sale is booked at
	Value       decimal.Decimal // quantity × unit price, recorded as an inflow
	RemovesItem bool
}

// String returns a human-readable representation of the sale
func (d *SaleDelta) String() string {
	return fmt.Sprintf("sale %s × %s @ %s (value %s)",
		d.Quantity.String(), d.ItemName, d.UnitPrice.String(), d.Value.String())
}

// ShipmentDelta is a validated shipment: everything Apply will
// write, computed up front.
type ShipmentDelta struct {
	ItemName    string
	Quantity    decimal.Decimal
	Destination string
	UnitPrice   decimal.Decimal // unit price at withdrawal
	SaleValue   decimal.Decimal
	Fee         decimal.Decimal
	RemovesItem bool

	SaleEntry BalanceEntry
	FeeEntry  BalanceEntry
	Shipment  ShipmentRecord
	History   HistoryRecord
}

// String returns a human-readable representation of the shipment delta
func (d *ShipmentDelta) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shipment #%d of %s × %s to %s:\n",
		d.Shipment.ID, d.Quantity.String(), d.ItemName, d.Destination))
	sb.WriteString(fmt.Sprintf("  withdraw %s at %s", d.Quantity.String(), d.UnitPrice.String()))
	if d.RemovesItem {
		sb.WriteString(" (depletes item)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  #%d %s units %s\n", d.SaleEntry.Sequence, d.SaleEntry.Units.String(), d.SaleEntry.Amount.String()))
	sb.WriteString(fmt.Sprintf("  #%d %s units %s\n", d.FeeEntry.Sequence, d.FeeEntry.Units.String(), d.FeeEntry.Amount.String()))
	return sb.String()
}
