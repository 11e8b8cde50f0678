package browser_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/fixture"
	"github.com/raysh454/pageverify/internal/logging"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// launch starts a real browser with the named backend, skipping the test when
// none is installed or it cannot start.
func launch(t *testing.T, backend browser.Backend) browser.Browser {
	t.Helper()
	if testing.Short() {
		t.Skip("real browser tests are skipped in -short mode")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no chromium-based browser found")
	}

	cfg := browser.DefaultConfig()
	cfg.Backend = backend
	cfg.ExecPath = bin
	cfg.NoSandbox = true

	factory, err := browser.NewFactory(cfg, logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	b, err := factory(ctx)
	if err != nil {
		t.Skipf("launching %s: %v", backend, err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func fixtureServers(t *testing.T, readyDelay time.Duration) (consoleURL, loadingURL string) {
	t.Helper()
	cfg := fixture.DefaultConfig()
	cfg.ReadyDelay = readyDelay
	s := fixture.NewServer(cfg, logging.Nop())

	c := httptest.NewServer(s.ConsoleHandler())
	l := httptest.NewServer(s.LoadingHandler())
	t.Cleanup(func() {
		c.Close()
		l.Close()
	})
	return c.URL, l.URL
}

var backends = []browser.Backend{browser.BackendChromedp, browser.BackendRod}

func TestBrowser_ConsoleIdleScreenshot(t *testing.T) {
	consoleURL, _ := fixtureServers(t, 0)

	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := launch(t, backend)

			var mu sync.Mutex
			var got []console.Message
			b.OnConsole(func(m console.Message) {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, m)
			})

			ctx := context.Background()
			require.NoError(t, b.Navigate(ctx, consoleURL))
			require.NoError(t, b.WaitNetworkIdle(ctx, 500*time.Millisecond, 15*time.Second))

			shot, err := b.Screenshot(ctx)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(shot, pngSignature))

			mu.Lock()
			defer mu.Unlock()
			require.NotEmpty(t, got)
			types := map[string]bool{}
			for _, m := range got {
				types[m.Type] = true
			}
			assert.True(t, types["log"], "got %v", got)
			assert.True(t, types["error"], "got %v", got)
		})
	}
}

func TestBrowser_LoadingIndicatorHidden(t *testing.T) {
	_, loadingURL := fixtureServers(t, 300*time.Millisecond)

	modes := []struct {
		name  string
		query string
		inDOM bool
	}{
		{"removed", "/", false},
		{"display none", "/?hide=display", true},
		{"visibility hidden", "/?hide=visibility", true},
		{"nested display none", "/?nested=1&hide=display", true},
		{"nested visibility hidden", "/?nested=1&hide=visibility", true},
	}

	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := launch(t, backend)
			ctx := context.Background()

			for _, m := range modes {
				t.Run(m.name, func(t *testing.T) {
					require.NoError(t, b.Navigate(ctx, loadingURL+m.query))
					require.NoError(t, b.WaitTextHidden(ctx, "Loading...", 100*time.Millisecond, 10*time.Second))

					html, err := b.HTML(ctx)
					require.NoError(t, err)
					assert.Equal(t, m.inDOM, strings.Contains(html, ">Loading...<"))
				})
			}
		})
	}
}

// A visible wrapper whose text is exactly the indicator text does not count
// while the deeper element carrying the text is itself visible, and stops
// counting once that element is hidden.
func TestBrowser_LoadingIndicatorNestedWrapper(t *testing.T) {
	_, loadingURL := fixtureServers(t, 0)

	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := launch(t, backend)
			ctx := context.Background()

			require.NoError(t, b.Navigate(ctx, loadingURL+"/?nested=1&stall=1"))
			err := b.WaitTextHidden(ctx, "Loading...", 50*time.Millisecond, 500*time.Millisecond)
			assert.ErrorIs(t, err, browser.ErrConditionTimeout)

			require.NoError(t, b.Navigate(ctx, loadingURL+"/?nested=1&hide=visibility"))
			require.NoError(t, b.WaitTextHidden(ctx, "Loading...", 50*time.Millisecond, 10*time.Second))
		})
	}
}

func TestBrowser_LoadingIndicatorStalls(t *testing.T) {
	_, loadingURL := fixtureServers(t, 0)

	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := launch(t, backend)
			ctx := context.Background()

			require.NoError(t, b.Navigate(ctx, loadingURL+"/?stall=1"))
			start := time.Now()
			err := b.WaitTextHidden(ctx, "Loading...", 100*time.Millisecond, time.Second)
			require.Error(t, err)
			assert.True(t, errors.Is(err, browser.ErrConditionTimeout), "got %v", err)
			assert.GreaterOrEqual(t, time.Since(start), time.Second)
		})
	}
}

func TestBrowser_NavigateUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	dead := srv.URL
	srv.Close()

	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			b := launch(t, backend)
			err := b.Navigate(context.Background(), dead)
			require.Error(t, err)
			assert.True(t, errors.Is(err, browser.ErrNavigation), "got %v", err)

			first := b.Close()
			assert.Equal(t, first, b.Close(), "Close is idempotent")
		})
	}
}
