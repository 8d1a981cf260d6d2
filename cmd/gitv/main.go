package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/indaco/gitv/internal/cli"
	"github.com/indaco/gitv/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}

// runCLI runs the root command with args until it finishes or is interrupted.
func runCLI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.New().Run(ctx, args)
}
