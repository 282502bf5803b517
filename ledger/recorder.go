package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Recorder is the append-only owner of the balance ledger and the operation
// history. Nothing is ever updated or removed.
type Recorder struct {
	entries []BalanceEntry
	history []HistoryRecord
}

// NewRecorder creates a recorder seeded with previously persisted entries
// and history. Both slices are copied.
func NewRecorder(entries []BalanceEntry, history []HistoryRecord) *Recorder {
	return &Recorder{
		entries: slices.Clone(entries),
		history: slices.Clone(history),
	}
}

// Record appends a balance entry and returns its sequence number, which is
// always the ledger length after the append.
func (r *Recorder) Record(name string, at time.Time, units, amount decimal.Decimal) (int, error) {
	if units.IsNegative() {
		return 0, &InvalidQuantityError{Field: "units", Value: units}
	}
	seq := r.NextSequence()
	r.entries = append(r.entries, BalanceEntry{
		Name:       name,
		RecordedAt: at,
		Sequence:   seq,
		Units:      units,
		Amount:     amount,
	})
	return seq, nil
}

// NextSequence returns the sequence number the next entry will receive
func (r *Recorder) NextSequence() int {
	return len(r.entries) + 1
}

// LogHistory appends an operation description.
func (r *Recorder) LogHistory(at time.Time, operation, details string) {
	r.history = append(r.history, HistoryRecord{
		RecordedAt: at,
		Operation:  operation,
		Details:    details,
	})
}

// Entries returns a copy of the ledger
func (r *Recorder) Entries() []BalanceEntry {
	return slices.Clone(r.entries)
}

// History returns a copy of the operation history
func (r *Recorder) History() []HistoryRecord {
	return slices.Clone(r.history)
}

// Len returns the number of balance entries
func (r *Recorder) Len() int {
	return len(r.entries)
}
