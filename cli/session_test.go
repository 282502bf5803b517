package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sirupsen/logrus"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/loader"
)

func TestSessionRun(t *testing.T) {
	t.Run("PurchaseThenBalance", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "1\nWidgets\n100\n2\n3\n9\n")

		assert.NoError(t, s.Run(context.Background()))

		out := te.stdout.String()
		assert.Contains(t, out, "Warehouse bookkeeping")
		assert.Contains(t, out, "Purchase made: 100 × Widgets, 100 on hand at 2.00")
		assert.Contains(t, out, "Total balance:      -200.00")
		assert.Contains(t, out, "Saved.")

		w, err := te.loader.Load(te.ctx)
		assert.NoError(t, err)
		item, ok := w.Item("Widgets")
		assert.True(t, ok)
		assert.Equal(t, "100", item.Quantity.String())
	})

	t.Run("MenuByName", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "inventory\nexit\n")
		assert.NoError(t, s.Run(context.Background()))
		assert.Contains(t, te.stdout.String(), "The inventory is empty")
	})

	t.Run("InvalidOption", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "42\nnonsense\n9\n")
		assert.NoError(t, s.Run(context.Background()))
		assert.Contains(t, te.stdout.String(), "Invalid option. Try again.")
	})

	t.Run("SaleAtStockPrice", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "1\nWidgets\n100\n2\n2\nWidgets\n40\n\n9\n")
		assert.NoError(t, s.Run(context.Background()))
		assert.Contains(t, te.stdout.String(), "Sale made: 40 × Widgets for 80.00")
	})

	t.Run("RejectedSaleKeepsRunning", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "2\nGhost\n1\n\n3\n9\n")
		assert.NoError(t, s.Run(context.Background()))
		assert.Contains(t, te.stderr.String(), `item "Ghost" not found in inventory`)
		assert.Contains(t, te.stdout.String(), "Total balance:")
	})

	t.Run("EndOfInputSaves", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "1\nWidgets\n")
		assert.NoError(t, s.Run(context.Background()))

		_, err := os.Stat(filepath.Join(te.dir, "Balance.txt"))
		assert.NoError(t, err)
	})

	t.Run("SaveFailureExitsWithTwo", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "9\n")

		assert.NoError(t, os.RemoveAll(te.dir))
		assert.NoError(t, os.WriteFile(te.dir, []byte("not a directory"), 0o644))

		err := s.Run(context.Background())
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, ExitSaveFailed, cmdErr.ExitCode())
		assert.Contains(t, te.stderr.String(), "Could not save")
	})
}

func TestShipmentFlow(t *testing.T) {
	te := newTestEnv(t)
	s := te.session(t, "Ghost\nWidgets\n0\n500\nabc\n60\n\nBerlin\nWidgets\n40\nParis\nend\n")
	_, err := s.w.Purchase(context.Background(), "Widgets", d("100"), d("2"))
	assert.NoError(t, err)

	assert.NoError(t, s.send(context.Background()))

	out, errOut := te.stdout.String(), te.stderr.String()
	assert.Contains(t, errOut, `"Ghost" is not in the inventory`)
	assert.Contains(t, errOut, "Quantity must be positive")
	assert.Contains(t, errOut, "Only 100 of Widgets on hand")
	assert.Contains(t, out, `quantity: "abc" is not a number`)
	assert.Contains(t, out, "destination: is required")
	assert.Contains(t, out, "Shipping cost: 5.00")
	assert.Contains(t, out, "Shipment #1: 60 × Widgets to Berlin, shipping cost 5.00")
	assert.Contains(t, out, "Shipment #2: 40 × Widgets to Paris, shipping cost 2.00")
	assert.Contains(t, out, "2 shipment(s) sent")

	_, ok := s.w.Item("Widgets")
	assert.False(t, ok)

	// Each shipment is saved as soon as it is sent.
	saved, err := te.loader.LoadState(te.ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(saved.Shipments))
	assert.Equal(t, 0, len(saved.Inventory))
}

func TestShipmentFlowEndOfInput(t *testing.T) {
	te := newTestEnv(t)
	s := te.session(t, "Widgets\n")
	_, err := s.w.Purchase(context.Background(), "Widgets", d("10"), d("1"))
	assert.NoError(t, err)

	err = s.send(context.Background())
	assert.True(t, errors.Is(err, io.EOF))
}

func TestShipmentStateString(t *testing.T) {
	assert.Equal(t, "AWAIT_ITEM_NAME", awaitItemName.String())
	assert.Equal(t, "COMMIT", commit.String())
	assert.Equal(t, "UNKNOWN", shipmentState(99).String())
}

func TestReconcileExternalChanges(t *testing.T) {
	t.Run("Reload", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "y\n")

		other := ledger.New()
		_, err := other.Purchase(context.Background(), "Gears", d("5"), d("3"))
		assert.NoError(t, err)
		assert.NoError(t, loader.New(te.gateway).Save(context.Background(), other))

		s.changedPath.Store(filepath.Join(te.dir, "Inventory.txt"))
		s.changed.Store(true)
		s.reconcileExternalChanges(context.Background())

		_, ok := s.w.Item("Gears")
		assert.True(t, ok)
		assert.Contains(t, te.stderr.String(), "was changed outside this session")
		assert.Contains(t, te.stdout.String(), "Reloaded from disk")
	})

	t.Run("Keep", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "n\n")
		s.changed.Store(true)
		s.reconcileExternalChanges(context.Background())
		assert.Contains(t, te.stdout.String(), "Keeping the current session")
	})

	t.Run("NothingChanged", func(t *testing.T) {
		te := newTestEnv(t)
		s := te.session(t, "")
		s.reconcileExternalChanges(context.Background())
		assert.Equal(t, "", te.stderr.String())
	})
}

func TestWithValidation(t *testing.T) {
	te := newTestEnv(t)

	h := withValidation(te.stderr, func(context.Context) error {
		return &InputError{Field: "quantity", Input: "x", Err: errNotANumber}
	})
	assert.NoError(t, h(context.Background()))
	assert.Contains(t, te.stderr.String(), `quantity: "x" is not a number`)

	h = withValidation(te.stderr, func(context.Context) error {
		return ledger.ErrEmptyDestination
	})
	assert.IsError(t, h(context.Background()), ledger.ErrEmptyDestination)
}

func TestWithLogging(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	hook := &recordingHook{}
	logger.AddHook(hook)

	h := withLogging(logger, OpSale, func(context.Context) error { return ledger.ErrItemNotFound })
	assert.IsError(t, h(context.Background()), ledger.ErrItemNotFound)

	assert.Equal(t, []string{"operation started", "operation failed"}, hook.messages)
	assert.Equal(t, "sale", hook.entries[1].Data["op"])
}

type recordingHook struct {
	messages []string
	entries  []*logrus.Entry
}

func (h *recordingHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *recordingHook) Fire(e *logrus.Entry) error {
	h.messages = append(h.messages, e.Message)
	h.entries = append(h.entries, e)
	return nil
}
