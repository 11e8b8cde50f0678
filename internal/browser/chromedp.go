package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/logging"
)

// chromedpBrowser is the chromedp-backed Browser. One exec allocator and one
// tab per instance.
type chromedpBrowser struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	cfg         Config
	logger      logging.Logger
	net         *netTracker

	mu       sync.Mutex
	handlers []func(console.Message)

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

func launchChromedp(ctx context.Context, cfg Config, logger logging.Logger) (Browser, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Debug("chromedp", logging.Field{Key: "detail", Value: fmt.Sprintf(format, args...)})
		}),
	)

	b := &chromedpBrowser{
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		cfg:         cfg,
		logger:      logger,
		net:         newNetTracker(),
		closed:      make(chan struct{}),
	}
	chromedp.ListenTarget(browserCtx, b.onEvent)

	// The first Run starts the browser process and ties it to b.ctx, so it
	// must not be given a shorter-lived context.
	if err := chromedp.Run(b.ctx, network.Enable(), runtime.Enable()); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("start chromedp: %w", err)
	}

	logger.Debug("launched browser", logging.Field{Key: "headless", Value: cfg.Headless})
	return b, nil
}

func (b *chromedpBrowser) onEvent(ev any) {
	switch ev := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		at := time.Now()
		if ev.Timestamp != nil {
			at = ev.Timestamp.Time()
		}
		args := make([]console.Arg, 0, len(ev.Args))
		for _, o := range ev.Args {
			if o == nil {
				continue
			}
			args = append(args, console.Arg{
				Type:           string(o.Type),
				Subtype:        string(o.Subtype),
				Value:          []byte(o.Value),
				Unserializable: string(o.UnserializableValue),
				Description:    o.Description,
			})
		}
		b.dispatch(console.FromArgs(string(ev.Type), args, at))
	case *network.EventRequestWillBeSent:
		b.net.started(string(ev.RequestID))
	case *network.EventLoadingFinished:
		b.net.finished(string(ev.RequestID))
	case *network.EventLoadingFailed:
		b.net.finished(string(ev.RequestID))
	}
}

func (b *chromedpBrowser) dispatch(m console.Message) {
	b.mu.Lock()
	handlers := append([]func(console.Message){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(m)
	}
}

// scoped derives a context from the browser context that also ends when the
// caller's ctx does.
func (b *chromedpBrowser) scoped(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(b.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(b.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (b *chromedpBrowser) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

func (b *chromedpBrowser) OnConsole(fn func(console.Message)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *chromedpBrowser) Navigate(ctx context.Context, url string) error {
	if b.isClosed() {
		return ErrClosed
	}
	b.net.reset()

	runCtx, cancel := b.scoped(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	b.logger.Debug("navigating", logging.Field{Key: "url", Value: url})
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	return nil
}

func (b *chromedpBrowser) WaitNetworkIdle(ctx context.Context, idle, timeout time.Duration) error {
	if b.isClosed() {
		return ErrClosed
	}
	return b.net.wait(ctx, idle, timeout)
}

func (b *chromedpBrowser) WaitTextHidden(ctx context.Context, text string, interval, timeout time.Duration) error {
	if b.isClosed() {
		return ErrClosed
	}
	runCtx, cancel := b.scoped(ctx, 0)
	defer cancel()

	js := textHiddenJS(text)
	return pollUntil(runCtx, interval, timeout, fmt.Sprintf("%q to be hidden", text), func(pctx context.Context) (bool, error) {
		var hidden bool
		if err := chromedp.Run(pctx, chromedp.Evaluate(js, &hidden)); err != nil {
			return false, err
		}
		return hidden, nil
	})
}

func (b *chromedpBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	runCtx, cancel := b.scoped(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, nil
}

func (b *chromedpBrowser) HTML(ctx context.Context) (string, error) {
	if b.isClosed() {
		return "", ErrClosed
	}
	runCtx, cancel := b.scoped(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

func (b *chromedpBrowser) Close() error {
	b.closeOnce.Do(func() {
		close(b.closed)
		// Cancel closes the tab and the browser process gracefully.
		if err := chromedp.Cancel(b.ctx); err != nil && !errors.Is(err, context.Canceled) {
			b.closeErr = fmt.Errorf("closing browser: %w", err)
		}
		b.cancelCtx()
		b.cancelAlloc()
		b.logger.Debug("browser closed")
	})
	return b.closeErr
}
