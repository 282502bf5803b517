package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Cost returns the flat fee for shipping quantity units: Light up to and
// including the threshold, Heavy above it.
func (t ShippingTariff) Cost(quantity decimal.Decimal) decimal.Decimal {
	if quantity.GreaterThan(t.Threshold) {
		return t.Heavy
	}
	return t.Light
}

// CalculateShippingCost returns the fee for quantity under the default
// tariff.
func CalculateShippingCost(quantity decimal.Decimal) decimal.Decimal {
	return NewConfig().Shipping.Cost(quantity)
}

// ShipmentProcessor owns the shipment log and drives the inventory and the
// recorder through their own methods when a shipment is committed.
type ShipmentProcessor struct {
	inventory *Inventory
	recorder  *Recorder
	tariff    ShippingTariff
	shipments []ShipmentRecord
}

// NewShipmentProcessor creates a processor over the given collaborators,
// seeded with previously persisted shipments.
func NewShipmentProcessor(inv *Inventory, rec *Recorder, tariff ShippingTariff, shipments []ShipmentRecord) *ShipmentProcessor {
	return &ShipmentProcessor{
		inventory: inv,
		recorder:  rec,
		tariff:    tariff,
		shipments: slices.Clone(shipments),
	}
}

// Shipments returns a copy of the shipment log
func (p *ShipmentProcessor) Shipments() []ShipmentRecord {
	return slices.Clone(p.shipments)
}

// Len returns the number of shipments sent
func (p *ShipmentProcessor) Len() int {
	return len(p.shipments)
}

// Validate checks a shipment against the current state and computes its
// delta. Failures are reported in this order: unknown item, more than is on
// hand, non-positive quantity, blank destination.
func (p *ShipmentProcessor) Validate(name string, quantity decimal.Decimal, destination string, at time.Time) (*ShipmentDelta, error) {
	item, err := p.inventory.CheckWithdrawal(name, quantity)
	if err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, &InvalidQuantityError{Field: "quantity", Value: quantity}
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, ErrEmptyDestination
	}

	fee := p.tariff.Cost(quantity)
	saleValue := item.UnitPrice.Mul(quantity)
	seq := p.recorder.NextSequence()

	return &ShipmentDelta{
		ItemName:    name,
		Quantity:    quantity,
		Destination: destination,
		UnitPrice:   item.UnitPrice,
		SaleValue:   saleValue,
		Fee:         fee,
		RemovesItem: quantity.Equal(item.Quantity),
		SaleEntry: BalanceEntry{
			Name:       name,
			RecordedAt: at,
			Sequence:   seq,
			Units:      quantity,
			Amount:     saleValue,
		},
		FeeEntry: BalanceEntry{
			Name:       name,
			RecordedAt: at,
			Sequence:   seq + 1,
			Units:      decimal.Zero,
			Amount:     fee.Neg(),
		},
		Shipment: ShipmentRecord{
			ID:           len(p.shipments) + 1,
			ItemName:     name,
			ShippedAt:    at,
			Destination:  destination,
			ShippingCost: fee,
		},
		History: HistoryRecord{
			RecordedAt: at,
			Operation:  "Shipment sent",
			Details: fmt.Sprintf("shipping cost %s for %s × %s to %s",
				fee.String(), quantity.String(), name, destination),
		},
	}, nil
}

// Apply commits a delta produced by Validate against the same state.
func (p *ShipmentProcessor) Apply(delta *ShipmentDelta) ShipmentRecord {
	if _, _, err := p.inventory.ApplyWithdrawal(delta.ItemName, delta.Quantity); err != nil {
		// Validate checked the same state under the same lock.
		panic(fmt.Sprintf("withdrawal failed after validation: %v", err))
	}
	for _, e := range []BalanceEntry{delta.SaleEntry, delta.FeeEntry} {
		if _, err := p.recorder.Record(e.Name, e.RecordedAt, e.Units, e.Amount); err != nil {
			panic(fmt.Sprintf("record failed after validation: %v", err))
		}
	}
	p.shipments = append(p.shipments, delta.Shipment)
	p.recorder.LogHistory(delta.History.RecordedAt, delta.History.Operation, delta.History.Details)
	return delta.Shipment
}

// ProcessShipment validates and commits a shipment in one step.
func (p *ShipmentProcessor) ProcessShipment(name string, quantity decimal.Decimal, destination string, at time.Time) (ShipmentRecord, error) {
	delta, err := p.Validate(name, quantity, destination, at)
	if err != nil {
		return ShipmentRecord{}, err
	}
	return p.Apply(delta), nil
}
