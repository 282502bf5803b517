package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Headers written as the first row of each persisted collection.
var (
	InventoryHeader = []string{"Name", "Date", "Package Number", "Quantity", "Unit Price"}
	BalanceHeader   = []string{"Name", "Date", "Sequence Number", "Units", "Amount"}
	HistoryHeader   = []string{"Date", "Operation", "Details"}
	ShipmentHeader  = []string{"Shipment ID", "Item", "Date", "Destination", "Shipping Cost"}
)

func formatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// EncodeInventory encodes items in InventoryHeader order.
func EncodeInventory(items []InventoryItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Name,
			formatTime(it.AddedAt),
			strconv.Itoa(it.PackageNumber),
			it.Quantity.String(),
			it.UnitPrice.String(),
		})
	}
	return rows
}

// EncodeBalance encodes entries in BalanceHeader order.
func EncodeBalance(entries []BalanceEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			formatTime(e.RecordedAt),
			strconv.Itoa(e.Sequence),
			e.Units.String(),
			e.Amount.String(),
		})
	}
	return rows
}

// EncodeHistory encodes records in HistoryHeader order.
func EncodeHistory(records []HistoryRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, h := range records {
		rows = append(rows, []string{formatTime(h.RecordedAt), h.Operation, h.Details})
	}
	return rows
}

// EncodeShipments encodes shipments in ShipmentHeader order.
func EncodeShipments(shipments []ShipmentRecord) [][]string {
	rows := make([][]string, 0, len(shipments))
	for _, s := range shipments {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			s.ItemName,
			formatTime(s.ShippedAt),
			s.Destination,
			s.ShippingCost.String(),
		})
	}
	return rows
}

// rowDecoder reads typed fields out of one row and remembers the first
// failure, so decoders can read every field and check once.
type rowDecoder struct {
	collection string
	line       int
	header     []string
	row        []string
	err        error
}

func newRowDecoder(collection string, line int, header, row []string) *rowDecoder {
	d := &rowDecoder{collection: collection, line: line, header: header, row: row}
	if len(row) != len(header) {
		d.err = &RowError{
			Collection: collection,
			Line:       line,
			Err:        fmt.Errorf("expected %d fields, got %d", len(header), len(row)),
		}
	}
	return d
}

func (d *rowDecoder) fail(i int, err error) {
	if d.err == nil {
		d.err = &RowError{Collection: d.collection, Line: d.line, Field: d.header[i], Err: err}
	}
}

func (d *rowDecoder) str(i int) string {
	if d.err != nil {
		return ""
	}
	return d.row[i]
}

func (d *rowDecoder) timestamp(i int) time.Time {
	if d.err != nil {
		return time.Time{}
	}
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(d.row[i]), time.Local)
	if err != nil {
		d.fail(i, err)
	}
	return t
}

func (d *rowDecoder) integer(i int) int {
	if d.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(d.row[i]))
	if err != nil {
		d.fail(i, err)
	}
	return n
}

func (d *rowDecoder) number(i int) decimal.Decimal {
	if d.err != nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(strings.TrimSpace(d.row[i]))
	if err != nil {
		d.fail(i, err)
	}
	return v
}

// DecodeInventory decodes rows written by EncodeInventory.
func DecodeInventory(rows [][]string) ([]InventoryItem, error) {
	items := make([]InventoryItem, 0, len(rows))
	for i, row := range rows {
		d := newRowDecoder("inventory", i+1, InventoryHeader, row)
		it := InventoryItem{
			Name:          d.str(0),
			AddedAt:       d.timestamp(1),
			PackageNumber: d.integer(2),
			Quantity:      d.number(3),
			UnitPrice:     d.number(4),
		}
		if d.err != nil {
			return nil, d.err
		}
		items = append(items, it)
	}
	return items, nil
}

// DecodeBalance decodes rows written by EncodeBalance.
func DecodeBalance(rows [][]string) ([]BalanceEntry, error) {
	entries := make([]BalanceEntry, 0, len(rows))
	for i, row := range rows {
		d := newRowDecoder("balance", i+1, BalanceHeader, row)
		e := BalanceEntry{
			Name:       d.str(0),
			RecordedAt: d.timestamp(1),
			Sequence:   d.integer(2),
			Units:      d.number(3),
			Amount:     d.number(4),
		}
		if d.err != nil {
			return nil, d.err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DecodeHistory decodes rows written by EncodeHistory.
func DecodeHistory(rows [][]string) ([]HistoryRecord, error) {
	records := make([]HistoryRecord, 0, len(rows))
	for i, row := range rows {
		d := newRowDecoder("history", i+1, HistoryHeader, row)
		h := HistoryRecord{
			RecordedAt: d.timestamp(0),
			Operation:  d.str(1),
			Details:    d.str(2),
		}
		if d.err != nil {
			return nil, d.err
		}
		records = append(records, h)
	}
	return records, nil
}

// DecodeShipments decodes rows written by EncodeShipments.
func DecodeShipments(rows [][]string) ([]ShipmentRecord, error) {
	shipments := make([]ShipmentRecord, 0, len(rows))
	for i, row := range rows {
		d := newRowDecoder("shipments", i+1, ShipmentHeader, row)
		s := ShipmentRecord{
			ID:           d.integer(0),
			ItemName:     d.str(1),
			ShippedAt:    d.timestamp(2),
			Destination:  d.str(3),
			ShippingCost: d.number(4),
		}
		if d.err != nil {
			return nil, d.err
		}
		shipments = append(shipments, s)
	}
	return shipments, nil
}
