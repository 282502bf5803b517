// Package ledger provides the inventory and balance reconciliation engine of
// the warehouse. It keeps the stocked items, the balance ledger, the
// operation history and the shipment log consistent with each other.
//
// The engine guarantees that:
//   - An item is present only while its quantity is positive
//   - An item's unit price is the weighted average of its purchases
//   - Balance sequence numbers increase by exactly one per entry
//   - A purchase, sale or shipment is applied entirely or not at all
//
// Every operation is validated into a delta first and applied afterwards
// (see deltas.go). It uses decimal arithmetic for all quantities and
// amounts.
//
// Example usage:
//
//	w := ledger.New()
//	if _, err := w.Purchase(ctx, "Widgets", decimal.NewFromInt(100), decimal.NewFromInt(2)); err != nil {
//	    log.Fatal(err)
//	}
//	shipment, err := w.Ship(ctx, "Widgets", decimal.NewFromInt(60), "Berlin")
//	if errors.Is(err, ledger.ErrInsufficientQuantity) {
//	    // not enough on hand
//	}
//	fmt.Println(w.Report().NetBalance())
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/warehouse/telemetry"
)

// Warehouse is the orchestrating context: it owns the inventory, the
// recorder and the shipment processor and serialises every operation on
// them. Reports are taken from a copy made under the read lock, so they
// never observe a half-applied operation.
type Warehouse struct {
	mu        sync.RWMutex
	config    *Config
	inventory *Inventory
	recorder  *Recorder
	shipments *ShipmentProcessor

	seed  State
	clock func() time.Time
}

// Option configures a Warehouse.
type Option func(*Warehouse)

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(w *Warehouse) {
		w.config = cfg
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(w *Warehouse) {
		w.clock = now
	}
}

// WithState seeds the warehouse with previously persisted collections.
func WithState(s State) Option {
	return func(w *Warehouse) {
		w.seed = s
	}
}

// New creates a warehouse with the given options. Without WithState it
// starts empty.
func New(opts ...Option) *Warehouse {
	w := &Warehouse{config: NewConfig()}
	for _, opt := range opts {
		opt(w)
	}

	if w.clock != nil {
		cfg := *w.config
		cfg.Now = w.clock
		w.config = &cfg
	}
	w.restore(w.seed)
	w.seed = State{}
	return w
}

func (w *Warehouse) restore(s State) {
	w.inventory = NewInventory(s.Inventory...)
	w.recorder = NewRecorder(s.Balance, s.History)
	w.shipments = NewShipmentProcessor(w.inventory, w.recorder, w.config.Shipping, s.Shipments)
}

// Restore replaces every collection with s.
func (w *Warehouse) Restore(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.restore(s)
}

// Config returns the warehouse configuration
func (w *Warehouse) Config() *Config {
	return w.config
}

// Purchase books quantity units of name bought at unitPrice each. The item
// is created or merged into the inventory and the cost is recorded as an
// outflow.
func (w *Warehouse) Purchase(ctx context.Context, name string, quantity, unitPrice decimal.Decimal) (InventoryItem, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.purchase %s", name))
	defer timer.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	delta, err := w.validatePurchase(name, quantity, unitPrice)
	if err != nil {
		return InventoryItem{}, err
	}
	return w.applyPurchase(delta), nil
}

func (w *Warehouse) validatePurchase(name string, quantity, unitPrice decimal.Decimal) (*PurchaseDelta, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyItemName
	}
	if err := w.inventory.CheckPurchase(name, quantity, unitPrice); err != nil {
		return nil, err
	}
	// Every balance entry other than a shipping fee moves at least one unit.
	if !quantity.IsPositive() {
		return nil, &InvalidQuantityError{Field: "quantity", Value: quantity}
	}
	return &PurchaseDelta{
		ItemName:  name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Cost:      quantity.Mul(unitPrice),
	}, nil
}

func (w *Warehouse) applyPurchase(delta *PurchaseDelta) InventoryItem {
	now := w.config.Now()
	item, err := w.inventory.ApplyPurchase(delta.ItemName, delta.Quantity, delta.UnitPrice, now)
	if err != nil {
		panic(fmt.Sprintf("purchase failed after validation: %v", err))
	}
	if _, err := w.recorder.Record(delta.ItemName, now, delta.Quantity, delta.Cost.Neg()); err != nil {
		panic(fmt.Sprintf("record failed after validation: %v", err))
	}
	w.recorder.LogHistory(now, "Purchase made", delta.String())
	return item
}

// SaleResult describes a completed sale.
type SaleResult struct {
	Item      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Value     decimal.Decimal
	Removed   bool
	Sequence  int
}

// Sale books quantity units of name sold. When price is not valid the sale
// is booked at the item's current unit price.
func (w *Warehouse) Sale(ctx context.Context, name string, quantity decimal.Decimal, price decimal.NullDecimal) (SaleResult, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.sale %s", name))
	defer timer.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	delta, err := w.validateSale(name, quantity, price)
	if err != nil {
		return SaleResult{}, err
	}
	return w.applySale(delta), nil
}

func (w *Warehouse) validateSale(name string, quantity decimal.Decimal, price decimal.NullDecimal) (*SaleDelta, error) {
	item, err := w.inventory.CheckWithdrawal(name, quantity)
	if err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, &InvalidQuantityError{Field: "quantity", Value: quantity}
	}

	unitPrice := item.UnitPrice
	if price.Valid {
		if price.Decimal.IsNegative() {
			return nil, &InvalidQuantityError{Field: "price", Value: price.Decimal}
		}
		unitPrice = price.Decimal
	}

	return &SaleDelta{
		ItemName:    name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Value:       quantity.Mul(unitPrice),
		RemovesItem: quantity.Equal(item.Quantity),
	}, nil
}

func (w *Warehouse) applySale(delta *SaleDelta) SaleResult {
	now := w.config.Now()
	_, removed, err := w.inventory.ApplyWithdrawal(delta.ItemName, delta.Quantity)
	if err != nil {
		panic(fmt.Sprintf("withdrawal failed after validation: %v", err))
	}
	seq, err := w.recorder.Record(delta.ItemName, now, delta.Quantity, delta.Value)
	if err != nil {
		panic(fmt.Sprintf("record failed after validation: %v", err))
	}
	w.recorder.LogHistory(now, "Sale made", delta.String())

	return SaleResult{
		Item:      delta.ItemName,
		Quantity:  delta.Quantity,
		UnitPrice: delta.UnitPrice,
		Value:     delta.Value,
		Removed:   removed,
		Sequence:  seq,
	}
}

// Ship sends quantity units of name to destination. The sale value is
// booked at the unit price in effect, followed by the shipping fee.
func (w *Warehouse) Ship(ctx context.Context, name string, quantity decimal.Decimal, destination string) (ShipmentRecord, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.ship %s", name))
	defer timer.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	validateTimer := timer.Child("ledger.ship.validate")
	delta, err := w.shipments.Validate(name, quantity, destination, w.config.Now())
	validateTimer.End()
	if err != nil {
		return ShipmentRecord{}, err
	}

	return w.shipments.Apply(delta), nil
}

// QuoteShipment validates a shipment without committing it.
func (w *Warehouse) QuoteShipment(name string, quantity decimal.Decimal, destination string) (*ShipmentDelta, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.shipments.Validate(name, quantity, destination, w.config.Now())
}

// Item returns the named item as it is now
func (w *Warehouse) Item(name string) (InventoryItem, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.inventory.Get(name)
}

// State returns a copy of every collection.
func (w *Warehouse) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state()
}

func (w *Warehouse) state() State {
	return State{
		Inventory: w.inventory.Items(),
		Balance:   w.recorder.Entries(),
		History:   w.recorder.History(),
		Shipments: w.shipments.Shipments(),
	}
}

// Report returns a report over a consistent copy of the current state.
func (w *Warehouse) Report() *Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return NewReport(w.state())
}
