package verify

import (
	"time"

	"github.com/raysh454/pageverify/internal/artifact"
)

// ConsoleConfig configures the console-logging verifier.
type ConsoleConfig struct {
	URL    string
	Output string

	// IdleWindow is how long the network must be quiet to count as idle.
	IdleWindow time.Duration
	// IdleTimeout bounds the network-idle wait.
	IdleTimeout time.Duration
	// Settle is the extra pause after idle for asynchronous work.
	Settle time.Duration
}

// DefaultConsoleConfig returns the console verifier's fixed defaults.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		URL:         "http://localhost:3000",
		Output:      artifact.DefaultPath,
		IdleWindow:  500 * time.Millisecond,
		IdleTimeout: 30 * time.Second,
		Settle:      2 * time.Second,
	}
}

// LoadingConfig configures the loading-state verifier.
type LoadingConfig struct {
	URL    string
	Output string

	// Text is the loading indicator's exact visible text.
	Text string

	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultLoadingConfig returns the loading verifier's fixed defaults.
func DefaultLoadingConfig() LoadingConfig {
	return LoadingConfig{
		URL:          "http://localhost:3001",
		Output:       artifact.DefaultPath,
		Text:         "Loading...",
		Timeout:      10 * time.Second,
		PollInterval: 100 * time.Millisecond,
	}
}
