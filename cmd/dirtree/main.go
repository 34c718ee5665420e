// Package main is the main package for the dirtree CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/holonoms/dirtree/internal/cli"
)

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil {
			os.Exit(exitInterrupted)
		}
		os.Exit(1)
	}
}
