package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func (s *Session) askDecimal(title, field string) (decimal.Decimal, error) {
	line, err := s.prompter.Input(title, requireDecimal(field))
	if err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(field, line)
}

func (s *Session) askItemName() (string, error) {
	name, err := s.prompter.Input("Item name", requireText("item name"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

func (s *Session) purchase(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.env.stdout, "\n--- Purchasing item ---")

	name, err := s.askItemName()
	if err != nil {
		return err
	}
	quantity, err := s.askDecimal("Quantity", "quantity")
	if err != nil {
		return err
	}
	price, err := s.askDecimal("Unit price", "unit price")
	if err != nil {
		return err
	}

	item, err := s.w.Purchase(ctx, name, quantity, price)
	if err != nil {
		return err
	}
	s.env.logger.WithField("item", name).Debug("purchase booked")
	printSuccess(s.env.stdout, fmt.Sprintf("Purchase made: %s × %s, %s on hand at %s",
		quantity, name, item.Quantity, item.UnitPrice.StringFixed(2)))
	return nil
}

func (s *Session) sale(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.env.stdout, "\n--- Making sale ---")

	name, err := s.askItemName()
	if err != nil {
		return err
	}
	quantity, err := s.askDecimal("Quantity", "quantity")
	if err != nil {
		return err
	}
	line, err := s.prompter.Input("Unit price (blank for the stock price)", optionalDecimal("unit price"))
	if err != nil {
		return err
	}
	price, err := parseOptionalDecimal("unit price", line)
	if err != nil {
		return err
	}

	res, err := s.w.Sale(ctx, name, quantity, price)
	if err != nil {
		return err
	}
	s.env.logger.WithField("item", name).Debug("sale booked")
	printSuccess(s.env.stdout, saleMessage(res.Quantity, res.Item, res.Value, res.Removed))
	return nil
}

func saleMessage(quantity decimal.Decimal, item string, value decimal.Decimal, removed bool) string {
	msg := fmt.Sprintf("Sale made: %s × %s for %s", quantity, item, value.StringFixed(2))
	if removed {
		msg += fmt.Sprintf(" (%s is sold out)", item)
	}
	return msg
}

func (s *Session) showBalance(ctx context.Context) error {
	writeBalance(s.env.stdout, s.env.styles, s.w.Report())
	return nil
}

func (s *Session) showInventory(ctx context.Context) error {
	writeInventory(s.env.stdout, s.env.plain, s.w.Report())
	return nil
}

func (s *Session) showTransactions(ctx context.Context) error {
	writeTransactions(s.env.stdout, s.env.plain, s.w.Report())
	return nil
}

func (s *Session) showHistory(ctx context.Context) error {
	writeHistory(s.env.stdout, s.env.plain, s.w.Report())
	return nil
}

func (s *Session) showShipments(ctx context.Context) error {
	writeShipments(s.env.stdout, s.env.plain, s.w.Report())
	return nil
}
