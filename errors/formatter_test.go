package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/warehouse/ledger"
)

var rows = Rows{
	"inventory": {
		{"Widgets", "01/03/2024 09:00:00", "1", "5", "2"},
		{"Widgets", "01/03/2024 09:00:01", "2", "-1", "2"},
	},
}

func TestTextFormatter_Format_WithRow(t *testing.T) {
	tf := NewTextFormatter(WithRows(rows))

	err := &ledger.InvariantError{Collection: "inventory", Index: 1, Message: `duplicate item "Widgets" (first at 0)`}
	assert.Equal(t,
		"inventory[1]: duplicate item \"Widgets\" (first at 0)\n\n   Widgets,01/03/2024 09:00:01,2,-1,2\n",
		tf.Format(err))
}

func TestTextFormatter_Format_RowError(t *testing.T) {
	tf := NewTextFormatter(WithRows(rows))

	err := &ledger.RowError{Collection: "inventory", Line: 1, Field: "Quantity", Err: errors.New("bad")}
	assert.Contains(t, tf.Format(err), "\n   Widgets,01/03/2024 09:00:00,1,5,2\n")
}

func TestTextFormatter_Format_WithoutRow(t *testing.T) {
	tf := NewTextFormatter()

	err := &ledger.InvariantError{Collection: "balance", Index: 4, Message: "negative units -1"}
	assert.Equal(t, "balance[4]: negative units -1", tf.Format(err))
	assert.Equal(t, "boom", tf.Format(errors.New("boom")))
}

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter()

	assert.Equal(t, "", tf.FormatAll(nil))
	assert.Equal(t, "first\n\nsecond", tf.FormatAll([]error{errors.New("first"), errors.New("second")}))
}

func TestJSONFormatter_Format(t *testing.T) {
	jf := NewJSONFormatter()

	err := &ledger.InsufficientQuantityError{
		Name:      "Widgets",
		Available: decimal.NewFromInt(5),
		Requested: decimal.NewFromInt(6),
	}

	var got ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.Format(err)), &got))
	assert.Equal(t, "*ledger.InsufficientQuantityError", got.Type)
	assert.Equal(t, "5", got.Details["available"])
	assert.Zero(t, got.Location)
}

func TestJSONFormatter_FormatAll(t *testing.T) {
	jf := NewJSONFormatter()

	errs := []error{
		&ledger.RowError{Collection: "balance", Line: 3, Field: "Units", Err: errors.New("bad")},
		&ledger.InvariantError{Collection: "shipments", Index: 0, Message: "shipment 1 has no destination"},
	}

	var got []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll(errs)), &got))
	assert.Equal(t, 2, len(got))
	assert.Equal(t, &LocationJSON{Collection: "balance", Row: 3}, got[0].Location)
	assert.Equal(t, "Units", got[0].Details["field"])
	assert.Equal(t, &LocationJSON{Collection: "shipments", Row: 1}, got[1].Location)
}
