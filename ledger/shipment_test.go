package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCalculateShippingCost(t *testing.T) {
	tests := []struct {
		quantity string
		want     string
	}{
		{"1", "2"},
		{"50", "2"},
		{"50.5", "5"},
		{"51", "5"},
		{"1000", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.quantity, func(t *testing.T) {
			assertDecimal(t, tt.want, CalculateShippingCost(d(tt.quantity)))
		})
	}
}

func TestShippingTariffCustom(t *testing.T) {
	tariff := ShippingTariff{Threshold: d("10"), Light: d("1.5"), Heavy: d("9")}
	assertDecimal(t, "1.5", tariff.Cost(d("10")))
	assertDecimal(t, "9", tariff.Cost(d("11")))
}

func newWidgetsWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w := New(WithClock(tickingClock()))
	_, err := w.Purchase(context.Background(), "Widgets", d("100"), d("2.0"))
	assert.NoError(t, err)
	return w
}

func TestShipWidgetsToBerlin(t *testing.T) {
	w := newWidgetsWarehouse(t)

	shipment, err := w.Ship(context.Background(), "Widgets", d("60"), "Berlin")
	assert.NoError(t, err)
	assert.Equal(t, 1, shipment.ID)
	assert.Equal(t, "Berlin", shipment.Destination)
	assertDecimal(t, "5", shipment.ShippingCost)

	item, ok := w.Item("Widgets")
	assert.True(t, ok)
	assertDecimal(t, "40", item.Quantity)
	assertDecimal(t, "2.0", item.UnitPrice)

	// The purchase, then exactly the sale and the fee.
	entries := w.State().Balance
	assert.Equal(t, 3, len(entries))

	sale, fee := entries[1], entries[2]
	assert.Equal(t, 2, sale.Sequence)
	assertDecimal(t, "60", sale.Units)
	assertDecimal(t, "120", sale.Amount)
	assert.Equal(t, TransactionSale, TransactionTypeOf(sale))

	assert.Equal(t, 3, fee.Sequence)
	assertDecimal(t, "0", fee.Units)
	assertDecimal(t, "-5", fee.Amount)
	assert.Equal(t, TransactionShippingCost, TransactionTypeOf(fee))
	assert.Equal(t, sale.RecordedAt, fee.RecordedAt)

	history := w.State().History
	assert.Equal(t, "Shipment sent", history[len(history)-1].Operation)
	assert.Equal(t, "shipping cost 5 for 60 × Widgets to Berlin", history[len(history)-1].Details)
}

func TestShipUnknownItemChangesNothing(t *testing.T) {
	w := newWidgetsWarehouse(t)
	before := w.State()

	_, err := w.Ship(context.Background(), "Ghost", d("1"), "Berlin")
	assert.True(t, errors.Is(err, ErrItemNotFound))

	assert.Equal(t, before, w.State())
}

func TestShipValidationOrder(t *testing.T) {
	tests := []struct {
		name        string
		item        string
		quantity    string
		destination string
		want        error
	}{
		{"NotFoundBeforeEverything", "Ghost", "-1", "", ErrItemNotFound},
		{"InsufficientBeforeBlankDestination", "Widgets", "101", " ", ErrInsufficientQuantity},
		{"ZeroQuantityBeforeDestination", "Widgets", "0", "", ErrInvalidQuantity},
		{"NegativeQuantity", "Widgets", "-3", "Berlin", ErrInvalidQuantity},
		{"BlankDestination", "Widgets", "10", " \t", ErrEmptyDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWidgetsWarehouse(t)
			before := w.State()

			_, err := w.Ship(context.Background(), tt.item, d(tt.quantity), tt.destination)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, w.State())
		})
	}
}

func TestShipWholeStockRemovesItem(t *testing.T) {
	w := newWidgetsWarehouse(t)

	delta, err := w.QuoteShipment("Widgets", d("100"), "  Hamburg  ")
	assert.NoError(t, err)
	assert.True(t, delta.RemovesItem)
	assert.Equal(t, "Hamburg", delta.Destination)
	assertDecimal(t, "5", delta.Fee)
	assertDecimal(t, "200", delta.SaleValue)
	assert.Contains(t, delta.String(), "(depletes item)")

	// Quoting does not commit.
	_, ok := w.Item("Widgets")
	assert.True(t, ok)

	_, err = w.Ship(context.Background(), "Widgets", d("100"), "  Hamburg  ")
	assert.NoError(t, err)
	_, ok = w.Item("Widgets")
	assert.False(t, ok)
}

func TestShipmentIDsIncrement(t *testing.T) {
	w := newWidgetsWarehouse(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		s, err := w.Ship(ctx, "Widgets", d("10"), "Paris")
		assert.NoError(t, err)
		assert.Equal(t, i, s.ID)
		assertDecimal(t, "2", s.ShippingCost)
	}
	assert.Equal(t, 3, len(w.State().Shipments))
}

func TestProcessShipmentDirect(t *testing.T) {
	inv := NewInventory(InventoryItem{Name: "Widgets", PackageNumber: 1, Quantity: d("5"), UnitPrice: d("3")})
	rec := NewRecorder(nil, nil)
	p := NewShipmentProcessor(inv, rec, NewConfig().Shipping, nil)

	s, err := p.ProcessShipment("Widgets", d("5"), "Oslo", purchasedAt)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.ID)
	assert.True(t, inv.IsEmpty())
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, 1, p.Len())
}
