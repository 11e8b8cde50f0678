// Package cli builds the cobra commands behind cmd/consoleverify,
// cmd/loadingverify and cmd/fixtureserver.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/raysh454/pageverify/internal/app"
	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/console"
	"github.com/raysh454/pageverify/internal/fixture"
	"github.com/raysh454/pageverify/internal/logging"
	"github.com/raysh454/pageverify/internal/verify"
)

// Options carries the process-level collaborators of a command.
type Options struct {
	// Stdout receives console lines and the failure message.
	Stdout io.Writer
	// Stderr receives structured logs.
	Stderr io.Writer

	Fs      afero.Fs
	Printer *console.Printer

	NewFactory func(browser.Config, logging.Logger) (browser.Factory, error)
}

// DefaultOptions wires the real terminal, filesystem and browser backends.
func DefaultOptions() Options {
	return Options{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Fs:         afero.NewOsFs(),
		Printer:    console.NewStdoutPrinter(),
		NewFactory: browser.NewFactory,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Stdout == nil {
		o.Stdout = d.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = d.Stderr
	}
	if o.Fs == nil {
		o.Fs = d.Fs
	}
	if o.Printer == nil {
		o.Printer = console.NewPrinter(o.Stdout)
	}
	if o.NewFactory == nil {
		o.NewFactory = d.NewFactory
	}
	return o
}

// loadConfig returns the defaults with environment overrides applied. The
// error is reported when the command runs, so --help still works.
func loadConfig() (*app.Config, error) {
	cfg := app.DefaultConfig()
	err := cfg.ApplyEnv()
	return cfg, err
}

type browserFlags struct {
	backend string
}

func addBrowserFlags(fs *pflag.FlagSet, cfg *app.Config, bf *browserFlags) {
	bf.backend = string(cfg.Browser.Backend)
	fs.StringVar(&bf.backend, "backend", bf.backend, fmt.Sprintf("browser backend %v", browser.ListBackends()))
	fs.BoolVar(&cfg.Browser.Headless, "headless", cfg.Browser.Headless, "run the browser headless")
	fs.StringVar(&cfg.Browser.ExecPath, "exec-path", cfg.Browser.ExecPath, "browser executable (default: auto-detect)")
	fs.BoolVar(&cfg.Browser.NoSandbox, "no-sandbox", cfg.Browser.NoSandbox, "disable the browser sandbox")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
}

func newLogger(o Options, component, level string) (logging.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return logging.New(o.Stderr, component, lvl), nil
}

func (o Options) deps(cfg *app.Config, bf *browserFlags, component string) (verify.Deps, error) {
	cfg.Browser.Backend = browser.Backend(bf.backend)

	logger, err := newLogger(o, component, cfg.LogLevel)
	if err != nil {
		return verify.Deps{}, err
	}
	factory, err := o.NewFactory(cfg.Browser, logger)
	if err != nil {
		return verify.Deps{}, err
	}
	return verify.Deps{
		Factory: factory,
		Fs:      o.Fs,
		Out:     o.Stdout,
		Printer: o.Printer,
		Logger:  logger,
	}, nil
}

// NewConsoleCommand returns the console-logging verifier command.
func NewConsoleCommand(o Options) *cobra.Command {
	o = o.withDefaults()
	cfg, envErr := loadConfig()
	bf := &browserFlags{}

	cmd := &cobra.Command{
		Use:   "consoleverify",
		Short: "Echo a page's console, wait for the network to settle and take a screenshot",
		Long: `Opens the target page in a headless browser, prints every console message as
"Browser Console (<severity>): <text>", waits until the network is idle plus a
settle delay, then writes a PNG screenshot. Failures are printed, never fatal.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			deps, err := o.deps(cfg, bf, "consoleverify")
			if err != nil {
				return err
			}
			verify.NewConsoleVerifier(cfg.Console, deps).Run(cmd.Context())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Console.URL, "url", cfg.Console.URL, "page to verify")
	fs.StringVar(&cfg.Console.Output, "output", cfg.Console.Output, "screenshot path, overwritten on every run")
	fs.DurationVar(&cfg.Console.IdleTimeout, "timeout", cfg.Console.IdleTimeout, "upper bound for the network-idle wait")
	fs.DurationVar(&cfg.Console.IdleWindow, "idle-window", cfg.Console.IdleWindow, "quiet period that counts as network idle")
	fs.DurationVar(&cfg.Console.Settle, "settle", cfg.Console.Settle, "extra pause after network idle")
	addBrowserFlags(fs, cfg, bf)
	return cmd
}

// NewLoadingCommand returns the loading-state verifier command.
func NewLoadingCommand(o Options) *cobra.Command {
	o = o.withDefaults()
	cfg, envErr := loadConfig()
	bf := &browserFlags{}

	cmd := &cobra.Command{
		Use:   "loadingverify",
		Short: "Wait for a page's loading indicator to disappear and take a screenshot",
		Long: `Opens the target page in a headless browser and polls until the element whose
text is exactly the loading text is hidden, bounded by --timeout, then writes a
PNG screenshot. Failures, including the timeout, are printed, never fatal.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			deps, err := o.deps(cfg, bf, "loadingverify")
			if err != nil {
				return err
			}
			verify.NewLoadingVerifier(cfg.Loading, deps).Run(cmd.Context())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Loading.URL, "url", cfg.Loading.URL, "page to verify")
	fs.StringVar(&cfg.Loading.Output, "output", cfg.Loading.Output, "screenshot path, overwritten on every run")
	fs.StringVar(&cfg.Loading.Text, "text", cfg.Loading.Text, "exact text of the loading indicator")
	fs.DurationVar(&cfg.Loading.Timeout, "timeout", cfg.Loading.Timeout, "how long to wait for the indicator to be hidden")
	fs.DurationVar(&cfg.Loading.PollInterval, "poll-interval", cfg.Loading.PollInterval, "how often to check the indicator")
	addBrowserFlags(fs, cfg, bf)
	return cmd
}

// NewFixtureCommand returns the fixture server command.
func NewFixtureCommand(o Options) *cobra.Command {
	o = o.withDefaults()
	cfg, envErr := loadConfig()

	cmd := &cobra.Command{
		Use:          "fixtureserver",
		Short:        "Serve stand-in apps for the console and loading verifiers",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			logger, err := newLogger(o, "fixtureserver", cfg.LogLevel)
			if err != nil {
				return err
			}
			fmt.Fprintf(o.Stdout, "console app on %s, loading app on %s\n", cfg.Fixture.ConsoleAddr, cfg.Fixture.LoadingAddr)
			return fixture.NewServer(cfg.Fixture, logger).Run(cmd.Context())
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.Fixture.ConsoleAddr, "console-addr", cfg.Fixture.ConsoleAddr, "listen address of the console app")
	fs.StringVar(&cfg.Fixture.LoadingAddr, "loading-addr", cfg.Fixture.LoadingAddr, "listen address of the loading app")
	fs.DurationVar(&cfg.Fixture.ReadyDelay, "ready-delay", cfg.Fixture.ReadyDelay, "how long the loading app stays in its loading state")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	return cmd
}
