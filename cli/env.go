package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/robinvdvleuten/warehouse/ledger"
	"github.com/robinvdvleuten/warehouse/loader"
	"github.com/robinvdvleuten/warehouse/output"
	"github.com/robinvdvleuten/warehouse/store"
	"github.com/robinvdvleuten/warehouse/telemetry"
)

// env is everything a command needs, built from the global flags.
type env struct {
	ctx     context.Context
	gateway store.Gateway
	loader  *loader.Loader
	logger  *logrus.Logger
	styles  *output.Styles

	stdout io.Writer
	stderr io.Writer
	plain  bool

	closers []func() error
	once    sync.Once
}

// openGateway opens the storage backend selected by the global flags.
func openGateway(globals *Globals) (store.Gateway, error) {
	switch globals.Backend {
	case "", "text":
		return store.NewText(globals.DataDir)
	case "sqlite":
		gw, err := store.NewSQLite(filepath.Join(globals.DataDir, "warehouse.db"))
		if err != nil {
			return nil, err
		}
		return gw, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", globals.Backend)
	}
}

// newEnv prepares the gateway, the operation log and, with --telemetry, a
// timing collector whose root timer is named after the command.
func newEnv(ctx *kong.Context, globals *Globals, opts ...loader.Option) (*env, error) {
	gw, err := openGateway(globals)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(globals.LogLevel, globals.LogFile, globals.DataDir, ctx.Stderr)
	if err != nil {
		_ = gw.Close()
		return nil, err
	}

	e := &env{
		ctx:     ledger.NewConfig().WithContext(context.Background()),
		gateway: gw,
		loader:  loader.New(gw, opts...),
		logger:  logger,
		stdout:  ctx.Stdout,
		stderr:  ctx.Stderr,
		plain:   globals.Plain,
	}
	e.styles = newStyles(ctx.Stdout, globals.Plain)
	e.closers = append(e.closers, gw.Close, closeLog)

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector(
			telemetry.WithStyles(newStyles(ctx.Stderr, globals.Plain)),
			telemetry.WithSlowThreshold(globals.Slow),
		)
		e.ctx = telemetry.WithCollector(e.ctx, collector)

		root := collector.Start(strings.Join(append([]string{"warehouse"}, commandPath(ctx)...), " "))
		e.ctx = telemetry.WithRootTimer(e.ctx, root)

		// Runs first so the report covers everything but closing.
		e.closers = append([]func() error{func() error {
			root.End()
			_, _ = fmt.Fprintln(e.stderr)
			collector.Report(e.stderr)
			return nil
		}}, e.closers...)
	}

	logger.WithField("backend", globals.Backend).Debug("environment ready")
	return e, nil
}

func newStyles(w io.Writer, plain bool) *output.Styles {
	if plain {
		return output.NewPlainStyles(w)
	}
	return output.NewStyles(w)
}

func commandPath(ctx *kong.Context) []string {
	if ctx == nil || ctx.Selected() == nil {
		return nil
	}
	return strings.Fields(ctx.Selected().Path())
}

// Close reports telemetry and releases the gateway and the log file.
func (e *env) Close() error {
	var firstErr error
	e.once.Do(func() {
		for _, c := range e.closers {
			if err := c(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}

// save writes every collection of w, reporting failures without aborting.
// It returns false when anything could not be written.
func (e *env) save(w *ledger.Warehouse) bool {
	if err := e.loader.Save(e.ctx, w); err != nil {
		e.logger.WithError(err).Error("save failed")
		printError(e.stderr, fmt.Sprintf("Could not save: %v", err))
		return false
	}
	e.logger.Debug("saved")
	return true
}
