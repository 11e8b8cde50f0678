package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/logging"
)

type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	cfg      Config
	logger   logging.Logger
	net      *netTracker

	mu       sync.Mutex
	handlers []func(console.Message)

	// stopEvents ends the console and network event loop; eventsDone is
	// closed once it has returned.
	stopEvents context.CancelFunc
	eventsDone chan struct{}

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

func launchRod(ctx context.Context, cfg Config, logger logging.Logger) (Browser, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.ExecPath != "" {
		l = l.Bin(cfg.ExecPath)
	}
	if cfg.NoSandbox {
		l = l.Set("no-sandbox")
	}
	l = l.Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	// The event loop outlives launch, so only ctx's values are kept.
	eventsCtx, stopEvents := context.WithCancel(context.WithoutCancel(ctx))
	b := &rodBrowser{
		launcher:   l,
		browser:    browser,
		page:       page,
		cfg:        cfg,
		logger:     logger,
		net:        newNetTracker(),
		stopEvents: stopEvents,
		eventsDone: make(chan struct{}),
		closed:     make(chan struct{}),
	}

	wait := page.Context(eventsCtx).EachEvent(
		func(e *proto.RuntimeConsoleAPICalled) {
			b.dispatch(console.FromArgs(string(e.Type), rodArgs(e.Args), time.Now()))
		},
		func(e *proto.NetworkRequestWillBeSent) {
			b.net.started(string(e.RequestID))
		},
		func(e *proto.NetworkLoadingFinished) {
			b.net.finished(string(e.RequestID))
		},
		func(e *proto.NetworkLoadingFailed) {
			b.net.finished(string(e.RequestID))
		},
	)
	go func() {
		defer close(b.eventsDone)
		wait()
	}()

	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("enable network domain: %w", err)
	}
	if err := (proto.RuntimeEnable{}).Call(page); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("enable runtime domain: %w", err)
	}

	logger.Debug("launched browser", logging.Field{Key: "headless", Value: cfg.Headless})
	return b, nil
}

func rodArgs(objs []*proto.RuntimeRemoteObject) []console.Arg {
	args := make([]console.Arg, 0, len(objs))
	for _, o := range objs {
		if o == nil {
			continue
		}
		a := console.Arg{
			Type:           string(o.Type),
			Subtype:        string(o.Subtype),
			Unserializable: string(o.UnserializableValue),
			Description:    o.Description,
		}
		switch o.Type {
		case proto.RuntimeRemoteObjectTypeString, proto.RuntimeRemoteObjectTypeNumber, proto.RuntimeRemoteObjectTypeBoolean:
			if raw, err := json.Marshal(o.Value); err == nil {
				a.Value = raw
			}
		}
		args = append(args, a)
	}
	return args
}

func (b *rodBrowser) dispatch(m console.Message) {
	b.mu.Lock()
	handlers := append([]func(console.Message){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(m)
	}
}

func (b *rodBrowser) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

// pageFor returns the page bound to ctx, with timeout applied when positive.
func (b *rodBrowser) pageFor(ctx context.Context, timeout time.Duration) (*rod.Page, context.CancelFunc) {
	if timeout > 0 {
		tctx, cancel := context.WithTimeout(ctx, timeout)
		return b.page.Context(tctx), cancel
	}
	return b.page.Context(ctx), func() {}
}

func (b *rodBrowser) OnConsole(fn func(console.Message)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *rodBrowser) Navigate(ctx context.Context, url string) error {
	if b.isClosed() {
		return ErrClosed
	}
	b.net.reset()

	p, cancel := b.pageFor(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	b.logger.Debug("navigating", logging.Field{Key: "url", Value: url})
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %s: wait load: %v", ErrNavigation, url, err)
	}
	return nil
}

func (b *rodBrowser) WaitNetworkIdle(ctx context.Context, idle, timeout time.Duration) error {
	if b.isClosed() {
		return ErrClosed
	}
	return b.net.wait(ctx, idle, timeout)
}

func (b *rodBrowser) WaitTextHidden(ctx context.Context, text string, interval, timeout time.Duration) error {
	if b.isClosed() {
		return ErrClosed
	}
	fn := textHiddenFunc(text)
	return pollUntil(ctx, interval, timeout, fmt.Sprintf("%q to be hidden", text), func(pctx context.Context) (bool, error) {
		res, err := b.page.Context(pctx).Eval(fn)
		if err != nil {
			return false, err
		}
		return res.Value.Bool(), nil
	})
}

func (b *rodBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	p, cancel := b.pageFor(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

func (b *rodBrowser) HTML(ctx context.Context) (string, error) {
	if b.isClosed() {
		return "", ErrClosed
	}
	p, cancel := b.pageFor(ctx, b.cfg.NavigationTimeout)
	defer cancel()

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

func (b *rodBrowser) Close() error {
	b.closeOnce.Do(func() {
		close(b.closed)
		b.stopEvents()
		select {
		case <-b.eventsDone:
		case <-time.After(5 * time.Second):
			b.logger.Warn("rod event loop did not stop")
		}
		if err := b.browser.Close(); err != nil {
			b.closeErr = fmt.Errorf("closing browser: %w", err)
			b.launcher.Kill()
		}
		b.launcher.Cleanup()
		b.logger.Debug("browser closed")
	})
	return b.closeErr
}
