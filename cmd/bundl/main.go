// Package main is the entry point for the bundl compiler.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/bundl/cmd/bundl/commands"
	"go.trai.ch/bundl/internal/adapters/config"
	"go.trai.ch/bundl/internal/app"
	"go.trai.ch/bundl/internal/core/domain"
	_ "go.trai.ch/bundl/internal/wiring"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Interface - CLI. Components are built on first use so --config applies.
	cli := commands.New(boot)
	cli.SetArgs(args)
	cli.SetIO(stdin, stdout, stderr)

	// 2. Execution
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBuildFailed) || errors.Is(err, domain.ErrScriptFailed) {
			// Already reported as a result string.
			return 1
		}
		// zerr prints a report with metadata when using %+v
		_, _ = fmt.Fprintf(stderr, "Error: %+v\n", err)
		return 1
	}
	return 0
}

// boot resolves the component graph with a cache scoped to this invocation.
func boot(ctx context.Context, configPath string) (*app.Components, error) {
	components, _, err := graft.ExecuteFor[*app.Components](
		config.WithPath(ctx, configPath),
		graft.WithCache(graft.NewMemoryCache()),
	)
	if err != nil {
		return nil, err
	}
	return components, nil
}
