// Package browser drives a headless browser for the verifiers. Backends are
// registered by name; chromedp is the default and rod is available as an
// alternative.
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/raysh454/pageverify/internal/console"
)

var (
	// ErrNavigation wraps failures to load the target page.
	ErrNavigation = errors.New("navigation failed")
	// ErrConditionTimeout is returned when a waited-for page condition does
	// not hold before its deadline.
	ErrConditionTimeout = errors.New("timed out waiting for condition")
	// ErrClosed is returned by operations on a closed browser.
	ErrClosed = errors.New("browser closed")
)

// Browser is one launched browser with a single page.
type Browser interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitNetworkIdle blocks until no request has been in flight for idle.
	WaitNetworkIdle(ctx context.Context, idle, timeout time.Duration) error

	// WaitTextHidden polls until every element whose text is exactly text is
	// hidden or absent.
	WaitTextHidden(ctx context.Context, text string, interval, timeout time.Duration) error

	// OnConsole registers fn for every console message. Call before Navigate.
	OnConsole(fn func(console.Message))

	// Screenshot captures the viewport as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// HTML returns the current document's outer HTML.
	HTML(ctx context.Context) (string, error)

	// Close shuts the browser down. It is safe to call more than once.
	Close() error
}

// Factory launches a fresh browser.
type Factory func(ctx context.Context) (Browser, error)

// Sleep pauses for d, returning early with ctx's error if it is cancelled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
