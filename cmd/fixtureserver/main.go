// Command fixtureserver serves stand-in apps for the verifiers: a console
// app on :3000 and a loading app on :3001.
// Usage: go run ./cmd/fixtureserver [--ready-delay 1.5s]
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

	if err := cli.NewFixtureCommand(cli.DefaultOptions()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
