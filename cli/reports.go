package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/warehouse/ledger"
)

type BalanceCmd struct{}

func (cmd *BalanceCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runReport(ctx, globals, func(e *env, r *ledger.Report) {
		writeBalance(e.stdout, e.styles, r)
	})
}

type InventoryCmd struct{}

func (cmd *InventoryCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runReport(ctx, globals, func(e *env, r *ledger.Report) {
		writeInventory(e.stdout, e.plain, r)
	})
}

type TransactionsCmd struct{}

func (cmd *TransactionsCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runReport(ctx, globals, func(e *env, r *ledger.Report) {
		writeTransactions(e.stdout, e.plain, r)
	})
}

type HistoryCmd struct{}

func (cmd *HistoryCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runReport(ctx, globals, func(e *env, r *ledger.Report) {
		writeHistory(e.stdout, e.plain, r)
	})
}

type ShipmentsCmd struct{}

func (cmd *ShipmentsCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runReport(ctx, globals, func(e *env, r *ledger.Report) {
		writeShipments(e.stdout, e.plain, r)
	})
}

// runReport loads the warehouse read-only and writes one report.
func runReport(kctx *kong.Context, globals *Globals, write func(e *env, r *ledger.Report)) error {
	e, err := newEnv(kctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	w, err := e.loader.Load(e.ctx)
	if err != nil {
		e.logger.WithError(err).Error("load failed")
		_, _ = fmt.Fprintln(e.stderr, NewErrorRenderer(globals.DataDir).Render(err))
		return NewCommandError(ExitRejected)
	}
	write(e, w.Report())
	return nil
}
