// Package loader builds a ledger.Warehouse from persisted collections and
// writes it back. It sits between the store package, which only moves rows
// of strings, and the ledger package, which only knows typed records.
//
// The loader supports two modes of operation:
//   - Lenient mode (default): rows are decoded and the warehouse is seeded as-is
//   - Strict mode: the decoded state must also pass ledger.Check
//
// Example usage:
//
//	gw, _ := store.NewText("data")
//	ldr := loader.New(gw, loader.WithStrict())
//	w, err := ldr.Load(ctx)
//	...
//	err = ldr.Save(ctx, w)
package loader

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/store"
	"github.com/robinvdvleuten/warehouse/telemetry"
)

// Loader reads and writes the four warehouse collections through a
// store.Gateway.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(gw, WithStrict())
type Loader struct {
	gateway store.Gateway

	// Strict makes Load fail when the decoded state breaks an invariant.
	Strict bool

	warehouseOptions []ledger.Option
}

// Option configures how collections are loaded.
type Option func(*Loader)

// WithStrict makes Load run ledger.Check on the decoded state and return
// its *ledger.ValidationErrors instead of a warehouse.
func WithStrict() Option {
	return func(l *Loader) {
		l.Strict = true
	}
}

// WithWarehouseOptions passes extra options to ledger.New. They are applied
// after the config from context and before the loaded state.
func WithWarehouseOptions(opts ...ledger.Option) Option {
	return func(l *Loader) {
		l.warehouseOptions = append(l.warehouseOptions, opts...)
	}
}

// New creates a new Loader on gw with the given options.
func New(gw store.Gateway, opts ...Option) *Loader {
	l := &Loader{gateway: gw}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every collection and returns a warehouse seeded with them.
// The warehouse uses the ledger.Config carried by ctx, if any.
func (l *Loader) Load(ctx context.Context) (*ledger.Warehouse, error) {
	timer := telemetry.StartTimer(ctx, "loader.load")
	defer timer.End()

	state, err := l.LoadState(ctx)
	if err != nil {
		return nil, err
	}

	if l.Strict {
		if err := ledger.Check(state); err != nil {
			return nil, err
		}
	}

	opts := []ledger.Option{ledger.WithConfig(ledger.ConfigFromContext(ctx))}
	opts = append(opts, l.warehouseOptions...)
	opts = append(opts, ledger.WithState(state))
	w := ledger.New(opts...)
	if err := w.Config().Validate(); err != nil {
		return nil, fmt.Errorf("invalid warehouse config: %w", err)
	}
	return w, nil
}

// MustLoad is like Load but panics on error. Intended for tools and tests.
func (l *Loader) MustLoad(ctx context.Context) *ledger.Warehouse {
	w, err := l.Load(ctx)
	if err != nil {
		panic(err)
	}
	return w
}

// LoadState reads and decodes every collection without building a
// warehouse.
func (l *Loader) LoadState(ctx context.Context) (ledger.State, error) {
	var state ledger.State

	for _, c := range store.Collections {
		select {
		case <-ctx.Done():
			return ledger.State{}, ctx.Err()
		default:
		}

		rows, err := l.gateway.Load(ctx, c)
		if err != nil {
			return ledger.State{}, err
		}
		if err := decode(&state, c, records(rows)); err != nil {
			return ledger.State{}, err
		}
	}

	return state, nil
}

func decode(state *ledger.State, c store.Collection, rows [][]string) error {
	var err error
	switch c {
	case store.Inventory:
		state.Inventory, err = ledger.DecodeInventory(rows)
	case store.Balance:
		state.Balance, err = ledger.DecodeBalance(rows)
	case store.History:
		state.History, err = ledger.DecodeHistory(rows)
	case store.Shipments:
		state.Shipments, err = ledger.DecodeShipments(rows)
	default:
		err = fmt.Errorf("unknown collection %q", string(c))
	}
	return err
}

// Save writes every collection of w, overwriting what was stored. A failing
// collection does not stop the others from being written; all failures are
// returned joined.
func (l *Loader) Save(ctx context.Context, w *ledger.Warehouse) error {
	return l.SaveState(ctx, w.State())
}

// SaveState writes s, see Save.
func (l *Loader) SaveState(ctx context.Context, s ledger.State) error {
	timer := telemetry.StartTimer(ctx, "loader.save")
	defer timer.End()

	var errs []error
	for _, c := range store.Collections {
		header, rows := encode(s, c)
		if err := l.gateway.Save(ctx, c, store.Row(header), toRows(rows)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CheckHeaders compares the header stored for each collection with the one
// its rows are decoded with. Gateways that do not keep headers, and
// collections never saved, are skipped. Mismatches are returned as
// *store.HeaderMismatchError.
func (l *Loader) CheckHeaders(ctx context.Context) ([]error, error) {
	hr, ok := l.gateway.(store.HeaderReader)
	if !ok {
		return nil, nil
	}

	var problems []error
	for _, c := range store.Collections {
		got, err := hr.Header(ctx, c)
		if err != nil {
			return nil, err
		}
		want, _ := encode(ledger.State{}, c)
		if got != nil && !slices.Equal(got, store.Row(want)) {
			problems = append(problems, &store.HeaderMismatchError{Collection: c, Got: got, Want: want})
		}
	}
	return problems, nil
}

func encode(s ledger.State, c store.Collection) ([]string, [][]string) {
	switch c {
	case store.Inventory:
		return ledger.InventoryHeader, ledger.EncodeInventory(s.Inventory)
	case store.Balance:
		return ledger.BalanceHeader, ledger.EncodeBalance(s.Balance)
	case store.History:
		return ledger.HistoryHeader, ledger.EncodeHistory(s.History)
	case store.Shipments:
		return ledger.ShipmentHeader, ledger.EncodeShipments(s.Shipments)
	}
	return nil, nil
}

func records(rows []store.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func toRows(records [][]string) []store.Row {
	out := make([]store.Row, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
