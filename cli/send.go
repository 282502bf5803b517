package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/warehouse/ledger"
)

// endOfShipments typed as an item name leaves the shipment loop.
const endOfShipments = "end"

// shipmentState is a step of the interactive shipment loop.
type shipmentState int

const (
	awaitItemName shipmentState = iota
	itemLookup
	awaitQuantity
	awaitDestination
	commit
	terminated
)

func (s shipmentState) String() string {
	switch s {
	case awaitItemName:
		return "AWAIT_ITEM_NAME"
	case itemLookup:
		return "ITEM_LOOKUP"
	case awaitQuantity:
		return "AWAIT_QUANTITY"
	case awaitDestination:
		return "AWAIT_DESTINATION"
	case commit:
		return "COMMIT"
	case terminated:
		return "TERMINATED"
	}
	return "UNKNOWN"
}

// shipmentFlow sends shipments one after another until the user types
// "end". Every committed shipment is saved right away.
type shipmentFlow struct {
	session *Session

	item        ledger.InventoryItem
	name        string
	quantity    decimal.Decimal
	destination string
	sent        int
}

func (s *Session) send(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.env.stdout, "\n--- Sending shipments ---")
	printInfof(s.env.stdout, "Type %q as the item name when done.", endOfShipments)

	f := &shipmentFlow{session: s}
	if err := f.run(ctx); err != nil {
		return err
	}
	printInfof(s.env.stdout, "%d shipment(s) sent", f.sent)
	return nil
}

func (f *shipmentFlow) run(ctx context.Context) error {
	state := awaitItemName
	for state != terminated {
		next, err := f.step(ctx, state)
		if err != nil {
			return err
		}
		f.session.env.logger.WithField("from", state).WithField("to", next).Trace("shipment state")
		state = next
	}
	return nil
}

func (f *shipmentFlow) step(ctx context.Context, state shipmentState) (shipmentState, error) {
	s := f.session
	out, errOut := s.env.stdout, s.env.stderr

	switch state {
	case awaitItemName:
		name, err := s.prompter.Input("Item name", requireText("item name"))
		if err != nil {
			return terminated, err
		}
		f.name = strings.TrimSpace(name)
		if strings.EqualFold(f.name, endOfShipments) {
			return terminated, nil
		}
		return itemLookup, nil

	case itemLookup:
		item, ok := s.w.Item(f.name)
		if !ok {
			printError(errOut, fmt.Sprintf("%q is not in the inventory", f.name))
			return awaitItemName, nil
		}
		f.item = item
		printInfof(out, "%s on hand: %s at %s", f.name, item.Quantity, item.UnitPrice.StringFixed(2))
		return awaitQuantity, nil

	case awaitQuantity:
		line, err := s.prompter.Input("Quantity", requireDecimal("quantity"))
		if err != nil {
			return terminated, err
		}
		q, err := parseDecimal("quantity", line)
		if err != nil {
			printError(errOut, err.Error())
			return awaitQuantity, nil
		}
		if !q.IsPositive() {
			printError(errOut, "Quantity must be positive")
			return awaitQuantity, nil
		}
		if q.GreaterThan(f.item.Quantity) {
			printError(errOut, fmt.Sprintf("Only %s of %s on hand", f.item.Quantity, f.name))
			return awaitQuantity, nil
		}
		f.quantity = q
		printInfof(out, "Shipping cost: %s", s.w.Config().Shipping.Cost(q).StringFixed(2))
		return awaitDestination, nil

	case awaitDestination:
		dest, err := s.prompter.Input("Destination", requireText("destination"))
		if err != nil {
			return terminated, err
		}
		if strings.TrimSpace(dest) == "" {
			return awaitDestination, nil
		}
		f.destination = dest
		return commit, nil

	case commit:
		shipment, err := s.w.Ship(ctx, f.name, f.quantity, f.destination)
		if err != nil {
			// The stock may have moved since the lookup.
			if errors.Is(err, ledger.ErrInsufficientQuantity) || errors.Is(err, ledger.ErrItemNotFound) {
				printError(errOut, err.Error())
				return awaitItemName, nil
			}
			return terminated, err
		}
		f.sent++
		s.env.logger.WithField("item", f.name).WithField("shipment", shipment.ID).Info("shipment sent")
		printSuccess(out, fmt.Sprintf("Shipment #%d: %s × %s to %s, shipping cost %s",
			shipment.ID, f.quantity, f.name, shipment.Destination, shipment.ShippingCost.StringFixed(2)))
		s.save()
		return awaitItemName, nil
	}

	return terminated, fmt.Errorf("unexpected shipment state %s", state)
}
