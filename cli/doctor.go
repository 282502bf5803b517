package cli

import (
	stdErrors "errors"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/warehouse/errors"
	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/loader"
	"github.com/robinvdvleuten/warehouse/store"
)

// DoctorCmd provides doctor utilities for inspecting the data files.
type DoctorCmd struct {
	Check   CheckCmd   `cmd:"" help:"Verify the data files decode and keep every invariant."`
	Dump    DumpCmd    `cmd:"" help:"Print the decoded collections."`
	Convert ConvertCmd `cmd:"" help:"Copy every collection to another storage backend."`
}

// CheckCmd decodes every collection and runs the invariant checks on it.
type CheckCmd struct {
	Format string `help:"Output format (${enum})." enum:"text,json" default:"text"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	e, err := newEnv(ctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	problems, err := e.loader.CheckHeaders(e.ctx)
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, NewErrorRenderer(globals.DataDir).Render(err))
		return NewCommandError(ExitRejected)
	}

	state, err := e.loader.LoadState(e.ctx)
	if err != nil {
		var rowErr *ledger.RowError
		if !stdErrors.As(err, &rowErr) {
			_, _ = fmt.Fprintln(e.stderr, NewErrorRenderer(globals.DataDir).Render(err))
			return NewCommandError(ExitRejected)
		}
		problems = append(problems, rowErr)
	} else if err := ledger.Check(state); err != nil {
		var validationErrors *ledger.ValidationErrors
		if !stdErrors.As(err, &validationErrors) {
			return err
		}
		problems = append(problems, validationErrors.Errors...)
	}

	if cmd.Format == "json" {
		_, _ = fmt.Fprintln(e.stdout, errors.NewJSONFormatter().FormatAll(problems))
		if len(problems) > 0 {
			return NewCommandError(ExitRejected)
		}
		return nil
	}

	if len(problems) > 0 {
		formatter := errors.NewTextFormatter(errors.WithRows(rawRows(e)))
		_, _ = fmt.Fprintln(e.stderr, formatter.FormatAll(problems))
		_, _ = fmt.Fprintln(e.stderr)
		printError(e.stderr, fmt.Sprintf("%d validation error(s) found", len(problems)))
		return NewCommandError(ExitRejected)
	}

	printSuccess(e.stdout, fmt.Sprintf("Check passed: %d item(s), %d balance entries, %d history records, %d shipment(s)",
		len(state.Inventory), len(state.Balance), len(state.History), len(state.Shipments)))
	return nil
}

// rawRows reads the undecoded rows so problems can quote them. Collections
// that fail to load are left out.
func rawRows(e *env) errors.Rows {
	rows := make(errors.Rows, len(store.Collections))
	for _, c := range store.Collections {
		loaded, err := e.gateway.Load(e.ctx, c)
		if err != nil {
			continue
		}
		for _, r := range loaded {
			rows[string(c)] = append(rows[string(c)], []string(r))
		}
	}
	return rows
}

// DumpCmd prints the decoded collections, one Go value per line of data.
type DumpCmd struct {
	Collection string `arg:"" optional:"" help:"Only dump this collection (inventory, balance, history or shipments)."`
}

func (cmd *DumpCmd) Validate() error {
	if cmd.Collection != "" && !store.Collection(cmd.Collection).Valid() {
		return fmt.Errorf("unknown collection %q", cmd.Collection)
	}
	return nil
}

type itemView struct {
	Name          string
	AddedAt       string
	PackageNumber int
	Quantity      string
	UnitPrice     string
}

type entryView struct {
	Name       string
	RecordedAt string
	Sequence   int
	Type       string
	Units      string
	Amount     string
}

type shipmentView struct {
	ID           int
	ItemName     string
	ShippedAt    string
	Destination  string
	ShippingCost string
}

type historyView struct {
	RecordedAt string
	Operation  string
	Details    string
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	e, err := newEnv(ctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	state, err := e.loader.LoadState(e.ctx)
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, NewErrorRenderer(globals.DataDir).Render(err))
		return NewCommandError(ExitRejected)
	}

	for _, c := range store.Collections {
		if cmd.Collection != "" && cmd.Collection != string(c) {
			continue
		}
		_, _ = fmt.Fprintf(e.stdout, "%s:\n%s\n", c, repr.String(views(state, c), repr.Indent("  ")))
	}
	return nil
}

// views strips decimals and times down to their text so the dump shows
// values rather than struct internals.
func views(s ledger.State, c store.Collection) any {
	switch c {
	case store.Inventory:
		out := make([]itemView, 0, len(s.Inventory))
		for _, it := range s.Inventory {
			out = append(out, itemView{it.Name, it.AddedAt.Format(ledger.TimeLayout), it.PackageNumber, it.Quantity.String(), it.UnitPrice.String()})
		}
		return out
	case store.Balance:
		out := make([]entryView, 0, len(s.Balance))
		for _, b := range s.Balance {
			out = append(out, entryView{b.Name, b.RecordedAt.Format(ledger.TimeLayout), b.Sequence, ledger.TransactionTypeOf(b).String(), b.Units.String(), b.Amount.String()})
		}
		return out
	case store.History:
		out := make([]historyView, 0, len(s.History))
		for _, h := range s.History {
			out = append(out, historyView{h.RecordedAt.Format(ledger.TimeLayout), h.Operation, h.Details})
		}
		return out
	case store.Shipments:
		out := make([]shipmentView, 0, len(s.Shipments))
		for _, sh := range s.Shipments {
			out = append(out, shipmentView{sh.ID, sh.ItemName, sh.ShippedAt.Format(ledger.TimeLayout), sh.Destination, sh.ShippingCost.String()})
		}
		return out
	}
	return nil
}

// ConvertCmd copies the collections of the selected backend to another one
// in the same data directory.
type ConvertCmd struct {
	To    string `arg:"" enum:"text,sqlite" help:"Target backend (${enum})."`
	Force bool   `help:"Overwrite a target that already holds data."`
}

func (cmd *ConvertCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.To == globals.Backend {
		return fmt.Errorf("source and target backend are both %s", cmd.To)
	}

	e, err := newEnv(ctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	renderer := NewErrorRenderer(globals.DataDir)
	state, err := e.loader.LoadState(e.ctx)
	if err != nil {
		_, _ = fmt.Fprintln(e.stderr, renderer.Render(err))
		return NewCommandError(ExitRejected)
	}

	target := *globals
	target.Backend = cmd.To
	gw, err := openGateway(&target)
	if err != nil {
		return err
	}
	defer gw.Close()
	out := loader.New(gw)

	if !cmd.Force {
		existing, err := out.LoadState(e.ctx)
		if err != nil {
			_, _ = fmt.Fprintln(e.stderr, renderer.Render(err))
			return NewCommandError(ExitRejected)
		}
		if !isEmpty(existing) {
			printError(e.stderr, fmt.Sprintf("the %s backend already holds data; use --force to overwrite it", cmd.To))
			return NewCommandError(ExitRejected)
		}
	}

	if err := out.SaveState(e.ctx, state); err != nil {
		e.logger.WithError(err).Error("convert failed")
		_, _ = fmt.Fprintln(e.stderr, renderer.Render(err))
		return NewCommandError(ExitSaveFailed)
	}
	e.logger.WithField("from", globals.Backend).WithField("to", cmd.To).Info("converted")
	printSuccess(e.stdout, fmt.Sprintf("Copied %d item(s), %d balance entries, %d history records and %d shipment(s) to %s",
		len(state.Inventory), len(state.Balance), len(state.History), len(state.Shipments), cmd.To))
	return nil
}

func isEmpty(s ledger.State) bool {
	return len(s.Inventory) == 0 && len(s.Balance) == 0 && len(s.History) == 0 && len(s.Shipments) == 0
}
