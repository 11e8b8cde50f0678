// Package verify implements the two page verifiers: one that echoes the page's
// console and one that waits for a loading indicator to go away. Both leave a
// screenshot behind and swallow every failure after printing it.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/raysh454/pageverify/internal/artifact"
	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/logging"
	"github.com/raysh454/pageverify/internal/target"
)

// Deps are the collaborators a verifier needs.
type Deps struct {
	Factory browser.Factory
	Fs      afero.Fs
	Out     io.Writer
	Printer *console.Printer
	Logger  logging.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Printer == nil {
		d.Printer = console.NewPrinter(d.Out)
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	return d
}

func begin(verifier, url, output string, logger logging.Logger) (*Report, logging.Logger) {
	r := &Report{
		RunID:      uuid.NewString(),
		Verifier:   verifier,
		URL:        url,
		Screenshot: output,
		Kind:       KindNone,
		Started:    time.Now(),
	}
	runLogger := logger.With(
		logging.Field{Key: "run_id", Value: r.RunID},
		logging.Field{Key: "verifier", Value: verifier},
	)
	runLogger.Info("verification started", logging.Field{Key: "url", Value: url})
	return r, runLogger
}

// end records err on r and prints it with the generic message.
func end(r *Report, logger logging.Logger, out io.Writer, err error) *Report {
	r.Duration = time.Since(r.Started)
	r.Err = err
	r.Kind = Classify(err)

	if err != nil {
		fmt.Fprintf(out, "An error occurred during browser verification: %v\n", err)
		logger.Warn("verification failed",
			logging.Err(err),
			logging.Field{Key: "kind", Value: string(r.Kind)},
			logging.Field{Key: "duration", Value: r.Duration.String()})
		return r
	}
	logger.Info("verification finished",
		logging.Field{Key: "screenshot", Value: r.Screenshot},
		logging.Field{Key: "bytes", Value: r.Bytes},
		logging.Field{Key: "duration", Value: r.Duration.String()})
	return r
}

func normalizeURL(raw string) (string, error) {
	u, err := target.Normalize(raw, "http")
	if err != nil {
		return "", fmt.Errorf("%w: %v", browser.ErrNavigation, err)
	}
	return u, nil
}

// withBrowser launches a browser, runs fn and closes the browser on every
// path, panics included.
func withBrowser(ctx context.Context, factory browser.Factory, logger logging.Logger, fn func(browser.Browser) error) (err error) {
	if factory == nil {
		return errors.New("no browser factory configured")
	}
	b, err := factory(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			logger.Warn("closing browser", logging.Err(cerr))
		}
		logger.Debug("browser released")
	}()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during verification: %v", rec)
		}
	}()

	return fn(b)
}

// capture screenshots the page and writes it to path.
func capture(ctx context.Context, b browser.Browser, fs afero.Fs, path string, logger logging.Logger) (int, error) {
	png, err := b.Screenshot(ctx)
	if err != nil {
		return 0, err
	}
	n, err := artifact.Save(fs, path, png)
	if err != nil {
		return 0, err
	}
	logger.Info("screenshot saved",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "bytes", Value: n})
	return n, nil
}
