package verify

import (
	"context"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/dom"
	"github.com/raysh454/pageverify/internal/logging"
)

// LoadingVerifier waits for the page's loading indicator to be hidden and
// screenshots what replaced it.
type LoadingVerifier struct {
	cfg  LoadingConfig
	deps Deps
}

func NewLoadingVerifier(cfg LoadingConfig, deps Deps) *LoadingVerifier {
	d := DefaultLoadingConfig()
	if cfg.URL == "" {
		cfg.URL = d.URL
	}
	if cfg.Output == "" {
		cfg.Output = d.Output
	}
	if cfg.Text == "" {
		cfg.Text = d.Text
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = d.PollInterval
	}
	return &LoadingVerifier{cfg: cfg, deps: deps.withDefaults()}
}

// Run performs one verification. It never returns an error; see Report.Err.
func (v *LoadingVerifier) Run(ctx context.Context) *Report {
	r, logger := begin("loading", v.cfg.URL, v.cfg.Output, v.deps.Logger)

	url, err := normalizeURL(v.cfg.URL)
	if err != nil {
		return end(r, logger, v.deps.Out, err)
	}
	r.URL = url

	err = withBrowser(ctx, v.deps.Factory, logger, func(b browser.Browser) error {
		if err := b.Navigate(ctx, url); err != nil {
			return err
		}
		if err := b.WaitTextHidden(ctx, v.cfg.Text, v.cfg.PollInterval, v.cfg.Timeout); err != nil {
			return err
		}
		logger.Debug("loading indicator hidden", logging.Field{Key: "text", Value: v.cfg.Text})

		n, err := capture(ctx, b, v.deps.Fs, v.cfg.Output, logger)
		if err != nil {
			return err
		}
		r.Bytes = n

		r.IndicatorInDOM = v.indicatorInDOM(ctx, b, logger)
		return nil
	})

	return end(r, logger, v.deps.Out, err)
}

// indicatorInDOM reports whether the hidden indicator text is still part of
// the document. Failures are logged and treated as absent.
func (v *LoadingVerifier) indicatorInDOM(ctx context.Context, b browser.Browser, logger logging.Logger) bool {
	html, err := b.HTML(ctx)
	if err != nil {
		logger.Warn("reading page html", logging.Err(err))
		return false
	}
	present, err := dom.ContainsExactText(html, v.cfg.Text)
	if err != nil {
		logger.Warn("inspecting page html", logging.Err(err))
		return false
	}
	if present {
		logger.Info("loading indicator hidden but still in the DOM", logging.Field{Key: "text", Value: v.cfg.Text})
	}
	return present
}
