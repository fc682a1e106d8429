// Package main is the entry point for acornsim.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/acornui/acorn/cmd/acornsim/commands"
	"github.com/acornui/acorn/internal/sim"
	"github.com/grindlemire/graft"
)

// AppProvider builds the application behind the CLI.
type AppProvider func(context.Context) (commands.Application, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (commands.Application, error) {
		s, _, err := graft.ExecuteFor[*sim.Simulator](ctx)
		return s, err
	}))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, provider AppProvider) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(app)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	return 0
}
