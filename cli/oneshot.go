package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/warehouse/ledger"
)

// PurchaseCmd books a purchase without the menu.
type PurchaseCmd struct {
	Item     string `arg:"" help:"Item name."`
	Quantity string `arg:"" help:"Quantity bought."`
	Price    string `arg:"" help:"Unit price paid."`
}

func (cmd *PurchaseCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runMutation(ctx, globals, OpPurchase, func(ctx context.Context, w *ledger.Warehouse) (string, error) {
		quantity, err := parseDecimal("quantity", cmd.Quantity)
		if err != nil {
			return "", err
		}
		price, err := parseDecimal("unit price", cmd.Price)
		if err != nil {
			return "", err
		}
		item, err := w.Purchase(ctx, strings.TrimSpace(cmd.Item), quantity, price)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Purchase made: %s × %s, %s on hand at %s",
			quantity, item.Name, item.Quantity, item.UnitPrice.StringFixed(2)), nil
	})
}

// SaleCmd books a sale without the menu.
type SaleCmd struct {
	Item     string `arg:"" help:"Item name."`
	Quantity string `arg:"" help:"Quantity sold."`
	Price    string `help:"Unit price (default: the stock price)."`
}

func (cmd *SaleCmd) Run(ctx *kong.Context, globals *Globals) error {
	return runMutation(ctx, globals, OpSale, func(ctx context.Context, w *ledger.Warehouse) (string, error) {
		quantity, err := parseDecimal("quantity", cmd.Quantity)
		if err != nil {
			return "", err
		}
		price, err := parseOptionalDecimal("unit price", cmd.Price)
		if err != nil {
			return "", err
		}
		res, err := w.Sale(ctx, strings.TrimSpace(cmd.Item), quantity, price)
		if err != nil {
			return "", err
		}
		return saleMessage(res.Quantity, res.Item, res.Value, res.Removed), nil
	})
}

// SendCmd sends a single shipment without the menu.
type SendCmd struct {
	Item        string `arg:"" help:"Item name."`
	Quantity    string `arg:"" help:"Quantity to ship."`
	Destination string `arg:"" help:"Where the shipment goes."`
	DryRun      bool   `help:"Only quote the shipping cost."`
}

func (cmd *SendCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.DryRun {
		return runQuote(ctx, globals, cmd.quoteShipment)
	}
	return runMutation(ctx, globals, OpSend, func(ctx context.Context, w *ledger.Warehouse) (string, error) {
		quantity, err := parseDecimal("quantity", cmd.Quantity)
		if err != nil {
			return "", err
		}
		name := strings.TrimSpace(cmd.Item)
		shipment, err := w.Ship(ctx, name, quantity, cmd.Destination)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Shipment #%d: %s × %s to %s, shipping cost %s",
			shipment.ID, quantity, name, shipment.Destination, shipment.ShippingCost.StringFixed(2)), nil
	})
}

func (cmd *SendCmd) quoteShipment(w *ledger.Warehouse) (string, error) {
	quantity, err := parseDecimal("quantity", cmd.Quantity)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(cmd.Item)
	delta, err := w.QuoteShipment(name, quantity, cmd.Destination)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Shipment of %s × %s to %s would cost %s",
		quantity, name, delta.Destination, delta.Fee.StringFixed(2)), nil
}

// mutation changes w and describes what it did.
type mutation func(ctx context.Context, w *ledger.Warehouse) (string, error)

// runMutation loads the warehouse, applies m and saves. Bad input and
// rejected operations exit with 1, a failed save with 2.
func runMutation(kctx *kong.Context, globals *Globals, op Operation, m mutation) error {
	e, err := newEnv(kctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	renderer := NewErrorRenderer(globals.DataDir)
	w, err := e.loader.Load(e.ctx)
	if err != nil {
		e.logger.WithError(err).Error("load failed")
		_, _ = fmt.Fprintln(e.stderr, renderer.Render(err))
		return NewCommandError(ExitRejected)
	}

	var message string
	h := withLogging(e.logger, op, func(ctx context.Context) error {
		var err error
		message, err = m(ctx, w)
		return err
	})

	if err := h(e.ctx); err != nil {
		_, _ = fmt.Fprintln(e.stderr, renderer.Render(err))
		return NewCommandError(ExitRejected)
	}

	if !e.save(w) {
		return NewCommandError(ExitSaveFailed)
	}
	printSuccess(e.stdout, message)
	return nil
}

// runQuote loads the warehouse and prints what q reports, saving nothing.
func runQuote(kctx *kong.Context, globals *Globals, q func(w *ledger.Warehouse) (string, error)) error {
	e, err := newEnv(kctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	renderer := NewErrorRenderer(globals.DataDir)
	w, err := e.loader.Load(e.ctx)
	if err == nil {
		var message string
		if message, err = q(w); err == nil {
			printInfof(e.stdout, "%s", message)
			return nil
		}
	}
	_, _ = fmt.Fprintln(e.stderr, renderer.Render(err))
	return NewCommandError(ExitRejected)
}
