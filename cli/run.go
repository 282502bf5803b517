package cli

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/warehouse/loader"
)

// RunCmd starts the interactive menu.
type RunCmd struct {
	Strict bool `help:"Refuse to start when the data files break an invariant."`

	in io.Reader `kong:"-"`
}

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	e, err := cmd.env(ctx, globals)
	if err != nil {
		return err
	}
	defer e.Close()

	w, err := e.loader.Load(e.ctx)
	if err != nil {
		e.logger.WithError(err).Error("load failed")
		_, _ = io.WriteString(ctx.Stderr, NewErrorRenderer(globals.DataDir).Render(err)+"\n")
		printError(ctx.Stderr, "could not load the warehouse")
		return NewCommandError(ExitRejected)
	}

	in := cmd.in
	if in == nil {
		in = os.Stdin
	}
	session := newSession(e, w, newPrompter(in, ctx.Stdout, globals.Plain))

	watchCtx, cancel := context.WithCancel(e.ctx)
	defer cancel()
	session.watch(watchCtx)

	return session.Run(e.ctx)
}

func (cmd *RunCmd) env(ctx *kong.Context, globals *Globals) (*env, error) {
	var opts []loader.Option
	if cmd.Strict {
		opts = append(opts, loader.WithStrict())
	}
	return newEnv(ctx, globals, opts...)
}
