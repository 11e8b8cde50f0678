// Package testutil holds the fakes the verifier, browser and cli tests share:
// a recording logger and a scripted browser.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/logging"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger records log messages by level. Verifier tests read Warns to
// check that failures were logged.
type DummyLogger struct {
	mu     sync.Mutex
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

func (l *DummyLogger) record(dst *[]string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, msg)
}

func (l *DummyLogger) Debug(msg string, _ ...logging.Field) { l.record(&l.Debugs, msg) }
func (l *DummyLogger) Info(msg string, _ ...logging.Field)  { l.record(&l.Infos, msg) }
func (l *DummyLogger) Warn(msg string, _ ...logging.Field)  { l.record(&l.Warns, msg) }
func (l *DummyLogger) Error(msg string, _ ...logging.Field) { l.record(&l.Errors, msg) }

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Browser ───────────────────────────────────────────────────────────

// PNG is a minimal byte slice carrying the PNG signature.
var PNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 'f', 'a', 'k', 'e'}

// FakeBrowser implements browser.Browser. By default every operation succeeds,
// Screenshot returns PNG and Navigate emits Console to registered handlers.
type FakeBrowser struct {
	mu sync.Mutex

	// Console is emitted, in order, during Navigate.
	Console []console.Message

	NavigateErr   error
	IdleErr       error
	ScreenshotErr error
	HTMLErr       error

	// NeverHidden makes WaitTextHidden block until its timeout and fail.
	NeverHidden bool
	// HiddenAfter delays a successful WaitTextHidden.
	HiddenAfter time.Duration

	Shot []byte
	Page string

	handlers []func(console.Message)
	Calls    []string
	closed   int
}

// NewFakeBrowser returns a FakeBrowser that succeeds at everything.
func NewFakeBrowser() *FakeBrowser {
	return &FakeBrowser{
		Shot: PNG,
		Page: "<html><body><h1>ready</h1></body></html>",
	}
}

func (f *FakeBrowser) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *FakeBrowser) OnConsole(fn func(console.Message)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fn)
}

func (f *FakeBrowser) Navigate(ctx context.Context, url string) error {
	f.record("navigate " + url)
	f.mu.Lock()
	handlers := append([]func(console.Message){}, f.handlers...)
	msgs := append([]console.Message{}, f.Console...)
	err := f.NavigateErr
	f.mu.Unlock()

	for _, m := range msgs {
		for _, h := range handlers {
			h(m)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", browser.ErrNavigation, url, err)
	}
	return ctx.Err()
}

func (f *FakeBrowser) WaitNetworkIdle(ctx context.Context, idle, timeout time.Duration) error {
	f.record("idle")
	if f.IdleErr != nil {
		return f.IdleErr
	}
	return ctx.Err()
}

func (f *FakeBrowser) WaitTextHidden(ctx context.Context, text string, _, timeout time.Duration) error {
	f.record("hidden " + text)
	if f.NeverHidden {
		if err := browser.Sleep(ctx, timeout); err != nil {
			return err
		}
		return fmt.Errorf("%w: %q to be hidden after %s", browser.ErrConditionTimeout, text, timeout)
	}
	return browser.Sleep(ctx, f.HiddenAfter)
}

func (f *FakeBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	f.record("screenshot")
	if f.ScreenshotErr != nil {
		return nil, f.ScreenshotErr
	}
	return f.Shot, ctx.Err()
}

func (f *FakeBrowser) HTML(ctx context.Context) (string, error) {
	f.record("html")
	if f.HTMLErr != nil {
		return "", f.HTMLErr
	}
	return f.Page, ctx.Err()
}

func (f *FakeBrowser) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	f.Calls = append(f.Calls, "close")
	return nil
}

// Closed reports how many times Close was called.
func (f *FakeBrowser) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// CallLog returns a copy of the recorded calls.
func (f *FakeBrowser) CallLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.Calls...)
}

// Factory returns a browser.Factory that always hands out f.
func (f *FakeBrowser) Factory() browser.Factory {
	return func(context.Context) (browser.Browser, error) { return f, nil }
}

// FailingFactory returns a browser.Factory that fails to launch with err.
func FailingFactory(err error) browser.Factory {
	return func(context.Context) (browser.Browser, error) { return nil, err }
}
