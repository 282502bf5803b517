package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/output"
)

func sampleReport(t *testing.T) *ledger.Report {
	t.Helper()
	w := ledger.New(ledger.WithClock(fixedClock()))
	ctx := context.Background()
	_, err := w.Purchase(ctx, "Widgets", d("100"), d("2"))
	assert.NoError(t, err)
	_, err = w.Purchase(ctx, "Bolts", d("10"), d("0.5"))
	assert.NoError(t, err)
	_, err = w.Ship(ctx, "Widgets", d("60"), "Berlin")
	assert.NoError(t, err)
	return w.Report()
}

func TestWriteInventoryPlain(t *testing.T) {
	var buf bytes.Buffer
	writeInventory(&buf, true, sampleReport(t))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "--- Current inventory ---", lines[0])
	assert.Equal(t, "#  Item     Added                Quantity  Unit price  Value", lines[1])
	assert.Equal(t, "-  -------  -------------------  --------  ----------  -----", lines[2])
	assert.Equal(t, "1  Widgets  01/03/2024 09:00:01        40        2.00  80.00", lines[3])
	assert.Equal(t, "2  Bolts    01/03/2024 09:00:02        10        0.50   5.00", lines[4])
	assert.Equal(t, "Stock value: 85.00", lines[5])
}

func TestWriteInventoryTable(t *testing.T) {
	var buf bytes.Buffer
	writeInventory(&buf, false, sampleReport(t))

	out := buf.String()
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "Widgets")
	assert.Contains(t, out, "80.00")
}

func TestWriteBalance(t *testing.T) {
	var buf bytes.Buffer
	writeBalance(&buf, output.NewPlainStyles(&buf), sampleReport(t))

	out := buf.String()
	assert.Contains(t, out, "Income:             120.00")
	assert.Contains(t, out, "Expenses:           -210.00")
	assert.Contains(t, out, "  of which shipping: -5.00")
	assert.Contains(t, out, "Total balance:      -90.00")
}

func TestWriteTransactionsAndShipments(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	writeTransactions(&buf, true, r)
	out := buf.String()
	assert.Contains(t, out, "PURCHASE")
	assert.Contains(t, out, "SALE")
	assert.Contains(t, out, "SHIPPING_COST")
	assert.Contains(t, out, "Total balance: -90.00")

	buf.Reset()
	writeShipments(&buf, true, r)
	assert.Contains(t, buf.String(), "Berlin")
	assert.Contains(t, buf.String(), "Total shipping: 5.00")

	buf.Reset()
	writeHistory(&buf, true, r)
	assert.Contains(t, buf.String(), "Purchase made")
}

func TestWriteEmptyReports(t *testing.T) {
	r := ledger.New().Report()

	var buf bytes.Buffer
	writeInventory(&buf, true, r)
	writeTransactions(&buf, true, r)
	writeHistory(&buf, true, r)
	writeShipments(&buf, true, r)

	out := buf.String()
	assert.Contains(t, out, "The inventory is empty")
	assert.Contains(t, out, "No transactions recorded")
	assert.Contains(t, out, "No operations recorded")
	assert.Contains(t, out, "No shipments sent")
}
