package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

var purchasedAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

func TestApplyPurchase(t *testing.T) {
	t.Run("NewItemGetsNextPackageNumber", func(t *testing.T) {
		inv := NewInventory()

		first, err := inv.ApplyPurchase("Widgets", d("100"), d("2"), purchasedAt)
		assert.NoError(t, err)
		assert.Equal(t, 1, first.PackageNumber)

		second, err := inv.ApplyPurchase("Gadgets", d("5"), d("10"), purchasedAt)
		assert.NoError(t, err)
		assert.Equal(t, 2, second.PackageNumber)
		assert.Equal(t, 2, inv.Len())
	})

	t.Run("MergeUsesWeightedAverage", func(t *testing.T) {
		inv := NewInventory()
		_, err := inv.ApplyPurchase("Widgets", d("10"), d("2"), purchasedAt)
		assert.NoError(t, err)

		item, err := inv.ApplyPurchase("Widgets", d("30"), d("4"), purchasedAt.Add(time.Hour))
		assert.NoError(t, err)
		assertDecimal(t, "40", item.Quantity)
		assertDecimal(t, "3.5", item.UnitPrice)
		assert.Equal(t, 1, item.PackageNumber)
		assert.Equal(t, purchasedAt, item.AddedAt)
		assert.Equal(t, 1, inv.Len())
	})

	t.Run("ZeroQuantityMergeKeepsPrice", func(t *testing.T) {
		inv := NewInventory()
		_, err := inv.ApplyPurchase("Widgets", d("10"), d("2"), purchasedAt)
		assert.NoError(t, err)

		item, err := inv.ApplyPurchase("Widgets", d("0"), d("99"), purchasedAt)
		assert.NoError(t, err)
		assertDecimal(t, "2", item.UnitPrice)
	})

	t.Run("ZeroQuantityNewItemRejected", func(t *testing.T) {
		inv := NewInventory()
		_, err := inv.ApplyPurchase("Widgets", d("0"), d("2"), purchasedAt)
		assert.True(t, errors.Is(err, ErrInvalidQuantity))
		assert.True(t, inv.IsEmpty())
	})

	t.Run("NegativeInputsRejected", func(t *testing.T) {
		inv := NewInventory()

		_, err := inv.ApplyPurchase("Widgets", d("-1"), d("2"), purchasedAt)
		assert.True(t, errors.Is(err, ErrInvalidQuantity))

		_, err = inv.ApplyPurchase("Widgets", d("1"), d("-2"), purchasedAt)
		var qerr *InvalidQuantityError
		assert.True(t, errors.As(err, &qerr))
		assert.Equal(t, "unit price", qerr.Field)
		assert.True(t, inv.IsEmpty())
	})
}

func TestWeightedAverageOrderIndependent(t *testing.T) {
	purchases := []struct{ q, p string }{
		{"3", "1"},
		{"3", "2"},
		{"1", "5"},
		{"7", "0.25"},
	}

	average := func(order []int) decimal.Decimal {
		inv := NewInventory()
		for _, i := range order {
			_, err := inv.ApplyPurchase("Widgets", d(purchases[i].q), d(purchases[i].p), purchasedAt)
			assert.NoError(t, err)
		}
		item, ok := inv.Get("Widgets")
		assert.True(t, ok)
		return item.UnitPrice
	}

	want := average([]int{0, 1, 2, 3}).Round(8)
	for _, order := range [][]int{{3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}} {
		assert.True(t, want.Equal(average(order).Round(8)), "order %v", order)
	}
	// (3 + 6 + 5 + 1.75) / 14
	assertDecimal(t, "1.125", want)
}

func TestWeightedAverageUndefined(t *testing.T) {
	_, err := WeightedAverage(d("0"), d("1"), d("0"), d("2"))
	assert.True(t, errors.Is(err, ErrDivisionUndefined))

	avg, err := WeightedAverage(d("1"), d("1"), d("3"), d("3"))
	assert.NoError(t, err)
	assertDecimal(t, "2.5", avg)
}

func TestApplyWithdrawal(t *testing.T) {
	seed := func() *Inventory {
		return NewInventory(InventoryItem{
			Name:          "Widgets",
			AddedAt:       purchasedAt,
			PackageNumber: 1,
			Quantity:      d("100"),
			UnitPrice:     d("2"),
		})
	}

	t.Run("Partial", func(t *testing.T) {
		inv := seed()
		price, removed, err := inv.ApplyWithdrawal("Widgets", d("60"))
		assert.NoError(t, err)
		assertDecimal(t, "2", price)
		assert.False(t, removed)

		item, ok := inv.Get("Widgets")
		assert.True(t, ok)
		assertDecimal(t, "40", item.Quantity)
	})

	t.Run("ExactRemovesItem", func(t *testing.T) {
		inv := seed()
		_, removed, err := inv.ApplyWithdrawal("Widgets", d("100"))
		assert.NoError(t, err)
		assert.True(t, removed)
		_, ok := inv.Get("Widgets")
		assert.False(t, ok)
		assert.True(t, inv.IsEmpty())
	})

	t.Run("MoreThanOnHand", func(t *testing.T) {
		inv := seed()
		_, _, err := inv.ApplyWithdrawal("Widgets", d("100.5"))
		var qerr *InsufficientQuantityError
		assert.True(t, errors.As(err, &qerr))
		assertDecimal(t, "100", qerr.Available)
		assertDecimal(t, "100.5", qerr.Requested)

		item, _ := inv.Get("Widgets")
		assertDecimal(t, "100", item.Quantity)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		inv := seed()
		_, _, err := inv.ApplyWithdrawal("Ghost", d("1"))
		assert.True(t, errors.Is(err, ErrItemNotFound))
		assert.EqualError(t, err, `item "Ghost" not found in inventory`)
	})

	t.Run("NegativeQuantity", func(t *testing.T) {
		inv := seed()
		_, _, err := inv.ApplyWithdrawal("Widgets", d("-1"))
		assert.True(t, errors.Is(err, ErrInvalidQuantity))
	})
}

func TestWithdrawalNeverNegative(t *testing.T) {
	inv := NewInventory()
	_, err := inv.ApplyPurchase("Widgets", d("10"), d("1"), purchasedAt)
	assert.NoError(t, err)

	for _, q := range []string{"3", "3", "3", "3", "1"} {
		_, _, _ = inv.ApplyWithdrawal("Widgets", d(q))
		for _, it := range inv.Items() {
			assert.True(t, it.Quantity.IsPositive(), "item %s at %s", it.Name, it.Quantity)
		}
	}
	// 3+3+3 taken, the fourth 3 is refused, the final 1 empties the item.
	assert.True(t, inv.IsEmpty())
}

func TestRepurchaseAfterDepletionResetsPrice(t *testing.T) {
	inv := NewInventory()
	_, err := inv.ApplyPurchase("Widgets", d("10"), d("1"), purchasedAt)
	assert.NoError(t, err)
	_, _, err = inv.ApplyWithdrawal("Widgets", d("10"))
	assert.NoError(t, err)

	item, err := inv.ApplyPurchase("Widgets", d("5"), d("8"), purchasedAt)
	assert.NoError(t, err)
	assertDecimal(t, "8", item.UnitPrice)
	assert.Equal(t, 1, item.PackageNumber)
}

func TestItemsReturnsCopy(t *testing.T) {
	inv := NewInventory(InventoryItem{Name: "Widgets", Quantity: d("1"), UnitPrice: d("1")})
	items := inv.Items()
	items[0].Quantity = d("1000")

	item, _ := inv.Get("Widgets")
	assertDecimal(t, "1", item.Quantity)
}
