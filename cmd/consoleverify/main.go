// Command consoleverify opens the console-logging app (default
// http://localhost:3000), echoes its browser console and leaves a screenshot at
// jules-scratch/verification/verification.png.
// Usage: go run ./cmd/consoleverify [--url URL] [--backend chromedp|rod]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/pageverify/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewConsoleCommand(cli.DefaultOptions()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
