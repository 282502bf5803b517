package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/store"
)

// Operation is an entry of the interactive menu.
type Operation int

const (
	OpPurchase Operation = iota + 1
	OpSale
	OpBalance
	OpInventory
	OpSend
	OpTransactions
	OpHistory
	OpShipments
	OpExit
)

var operationNames = map[Operation]string{
	OpPurchase:     "purchase",
	OpSale:         "sale",
	OpBalance:      "balance",
	OpInventory:    "inventory",
	OpSend:         "send",
	OpTransactions: "transactions",
	OpHistory:      "history",
	OpShipments:    "shipments",
	OpExit:         "exit",
}

var operationLabels = map[Operation]string{
	OpPurchase:     "Purchase items",
	OpSale:         "Sell items",
	OpBalance:      "Show balance",
	OpInventory:    "Show inventory",
	OpSend:         "Send shipments",
	OpTransactions: "Show transactions",
	OpHistory:      "Show history",
	OpShipments:    "Show shipments",
	OpExit:         "Save and exit",
}

// menuOperations is the menu in display order.
var menuOperations = []Operation{
	OpPurchase, OpSale, OpBalance, OpInventory, OpSend,
	OpTransactions, OpHistory, OpShipments, OpExit,
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Label returns the menu text of o.
func (o Operation) Label() string {
	if label, ok := operationLabels[o]; ok {
		return label
	}
	return o.String()
}

// ParseOperation accepts an operation name, case-insensitively.
func ParseOperation(s string) (Operation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for op, name := range operationNames {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", s)
}

// withValidation reports an *InputError and carries on; every other error
// is passed up.
func withValidation(w io.Writer, next handler) handler {
	return func(ctx context.Context) error {
		err := next(ctx)
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			printError(w, inputErr.Error())
			return nil
		}
		return err
	}
}

// isEndOfInput reports whether err means the user is gone: input closed or
// the form aborted.
func isEndOfInput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, huh.ErrUserAborted)
}

// Session is one run of the interactive menu over a warehouse.
type Session struct {
	env      *env
	w        *ledger.Warehouse
	prompter Prompter
	handlers map[Operation]handler

	// Set by the file watcher, consumed by the menu loop.
	changed     atomic.Bool
	changedPath atomic.Value
	// Watcher events before this instant (unix nanos) are our own saves.
	quietUntil atomic.Int64
}

func newSession(e *env, w *ledger.Warehouse, p Prompter) *Session {
	s := &Session{env: e, w: w, prompter: p}

	ops := map[Operation]handler{
		OpPurchase:     s.purchase,
		OpSale:         s.sale,
		OpBalance:      s.showBalance,
		OpInventory:    s.showInventory,
		OpSend:         s.send,
		OpTransactions: s.showTransactions,
		OpHistory:      s.showHistory,
		OpShipments:    s.showShipments,
	}
	s.handlers = make(map[Operation]handler, len(ops))
	for op, h := range ops {
		s.handlers[op] = withLogging(e.logger, op, withValidation(e.stderr, h))
	}
	return s
}

// Run shows the menu until the user exits or input ends, then saves.
func (s *Session) Run(ctx context.Context) error {
	out := s.env.stdout
	_, _ = fmt.Fprintln(out, "------------ Warehouse bookkeeping ------------")

	for {
		s.reconcileExternalChanges(ctx)

		op, err := s.prompter.Menu(menuOperations)
		if isEndOfInput(err) {
			op = OpExit
		} else if err != nil {
			return err
		}

		if op == OpExit {
			if !s.save() {
				return NewCommandError(ExitSaveFailed)
			}
			printSuccess(out, "Saved. Thank you for using the warehouse.")
			return nil
		}

		h, ok := s.handlers[op]
		if !ok {
			printError(s.env.stderr, fmt.Sprintf("Unknown operation %s", op))
			continue
		}
		if err := h(ctx); err != nil {
			if isEndOfInput(err) {
				if !s.save() {
					return NewCommandError(ExitSaveFailed)
				}
				return nil
			}
			printError(s.env.stderr, err.Error())
		}
	}
}

// save writes every collection and mutes the watcher for our own writes.
func (s *Session) save() bool {
	s.quietUntil.Store(time.Now().Add(time.Second).UnixNano())
	return s.env.save(s.w)
}

// watch warns about edits made to the data files by someone else.
func (s *Session) watch(ctx context.Context) {
	wa, ok := s.env.gateway.(store.Watchable)
	if !ok {
		return
	}
	logger := s.env.logger
	err := store.Watch(ctx, wa.Paths(),
		func(path string) {
			if time.Now().UnixNano() < s.quietUntil.Load() {
				return
			}
			logger.WithField("path", path).Warn("data file changed on disk")
			s.changedPath.Store(path)
			s.changed.Store(true)
		},
		func(err error) {
			logger.WithError(err).Warn("file watcher error")
		},
	)
	if err != nil {
		logger.WithError(err).Warn("file watcher disabled")
	}
}

// reconcileExternalChanges offers to reload when the data files changed
// underneath the session.
func (s *Session) reconcileExternalChanges(ctx context.Context) {
	if !s.changed.Swap(false) {
		return
	}
	path, _ := s.changedPath.Load().(string)
	printWarningf(s.env.stderr, "%s was changed outside this session", pathStyle.Render(path))

	reload, err := s.prompter.Confirm("Reload from disk? Changes since the last save are lost.")
	if err != nil || !reload {
		printInfof(s.env.stdout, "Keeping the current session; the next save overwrites the files.")
		return
	}

	fresh, err := s.env.loader.Load(ctx)
	if err != nil {
		printError(s.env.stderr, fmt.Sprintf("Could not reload: %v", err))
		return
	}
	s.w.Restore(fresh.State())
	printSuccess(s.env.stdout, "Reloaded from disk")
}
