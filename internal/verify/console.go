package verify

import (
	"context"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/logging"
)

// ConsoleVerifier echoes every console message of the target page, waits for
// the network to settle and screenshots the result.
type ConsoleVerifier struct {
	cfg  ConsoleConfig
	deps Deps
}

func NewConsoleVerifier(cfg ConsoleConfig, deps Deps) *ConsoleVerifier {
	d := DefaultConsoleConfig()
	if cfg.URL == "" {
		cfg.URL = d.URL
	}
	if cfg.Output == "" {
		cfg.Output = d.Output
	}
	if cfg.IdleWindow <= 0 {
		cfg.IdleWindow = d.IdleWindow
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = d.IdleTimeout
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	return &ConsoleVerifier{cfg: cfg, deps: deps.withDefaults()}
}

// Run performs one verification. It never returns an error; see Report.Err.
func (v *ConsoleVerifier) Run(ctx context.Context) *Report {
	r, logger := begin("console", v.cfg.URL, v.cfg.Output, v.deps.Logger)

	url, err := normalizeURL(v.cfg.URL)
	if err != nil {
		return end(r, logger, v.deps.Out, err)
	}
	r.URL = url

	collected := &consoleLog{}
	err = withBrowser(ctx, v.deps.Factory, logger, func(b browser.Browser) error {
		b.OnConsole(func(m console.Message) {
			v.deps.Printer.Print(m)
			collected.add(m)
		})

		if err := b.Navigate(ctx, url); err != nil {
			return err
		}
		if err := b.WaitNetworkIdle(ctx, v.cfg.IdleWindow, v.cfg.IdleTimeout); err != nil {
			return err
		}
		logger.Debug("network idle", logging.Field{Key: "settle", Value: v.cfg.Settle.String()})
		if err := browser.Sleep(ctx, v.cfg.Settle); err != nil {
			return err
		}

		n, err := capture(ctx, b, v.deps.Fs, v.cfg.Output, logger)
		if err != nil {
			return err
		}
		r.Bytes = n
		return nil
	})
	r.Console = collected.snapshot()

	return end(r, logger, v.deps.Out, err)
}
