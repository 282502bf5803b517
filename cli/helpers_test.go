package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/loader"
	"github.com/robinvdvleuten/warehouse/output"
	"github.com/robinvdvleuten/warehouse/store"
)

// testEnv is an env over a text gateway in a temporary directory, with
// output captured.
type testEnv struct {
	*env
	dir    string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	gw, err := store.NewText(dir)
	assert.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var stdout, stderr bytes.Buffer
	e := &env{
		ctx:     context.Background(),
		gateway: gw,
		loader:  loader.New(gw, loader.WithWarehouseOptions(ledger.WithClock(fixedClock()))),
		logger:  logger,
		styles:  output.NewPlainStyles(&stdout),
		stdout:  &stdout,
		stderr:  &stderr,
		plain:   true,
	}
	e.closers = append(e.closers, gw.Close)
	t.Cleanup(func() { _ = e.Close() })
	return &testEnv{env: e, dir: dir, stdout: &stdout, stderr: &stderr}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// session starts a session over a fresh warehouse reading input line by line.
func (te *testEnv) session(t *testing.T, input string) *Session {
	t.Helper()
	w, err := te.loader.Load(te.ctx)
	assert.NoError(t, err)
	return newSession(te.env, w, newLinePrompter(strings.NewReader(input), te.stdout))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
