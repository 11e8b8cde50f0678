// Command loadingverify opens the loading-state app (default
// http://localhost:3001), waits up to 10s for "Loading..." to disappear and
// leaves a screenshot at jules-scratch/verification/verification.png.
// Usage: go run ./cmd/loadingverify [--url URL] [--timeout 10s]
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

	if err := cli.NewLoadingCommand(cli.DefaultOptions()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
