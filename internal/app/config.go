package app

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/fixture"
	"github.com/raysh454/pageverify/internal/verify"
)

// EnvPrefix prefixes every environment override, e.g. PAGEVERIFY_BACKEND.
const EnvPrefix = "PAGEVERIFY"

// Config gathers the configuration of every command.
type Config struct {
	Browser browser.Config
	Console verify.ConsoleConfig
	Loading verify.LoadingConfig
	Fixture fixture.Config

	LogLevel string
}

// DefaultConfig returns a Config populated with the fixed defaults the
// verifiers run with when given no flags and no environment.
func DefaultConfig() *Config {
	return &Config{
		Browser:  browser.DefaultConfig(),
		Console:  verify.DefaultConsoleConfig(),
		Loading:  verify.DefaultLoadingConfig(),
		Fixture:  fixture.DefaultConfig(),
		LogLevel: "info",
	}
}

// Env lists the optional environment overrides. Unset variables leave the
// corresponding setting alone.
type Env struct {
	Backend    string `envconfig:"BACKEND"`
	Headless   *bool  `envconfig:"HEADLESS"`
	ExecPath   string `envconfig:"EXEC_PATH"`
	NoSandbox  *bool  `envconfig:"NO_SANDBOX"`
	ConsoleURL string `envconfig:"CONSOLE_URL"`
	LoadingURL string `envconfig:"LOADING_URL"`
	Output     string `envconfig:"OUTPUT"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
}

// ApplyEnv reads PAGEVERIFY_* variables into c.
func (c *Config) ApplyEnv() error {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading %s_* environment: %w", EnvPrefix, err)
	}

	if env.Backend != "" {
		c.Browser.Backend = browser.Backend(env.Backend)
	}
	if env.Headless != nil {
		c.Browser.Headless = *env.Headless
	}
	if env.ExecPath != "" {
		c.Browser.ExecPath = env.ExecPath
	}
	if env.NoSandbox != nil {
		c.Browser.NoSandbox = *env.NoSandbox
	}
	if env.ConsoleURL != "" {
		c.Console.URL = env.ConsoleURL
	}
	if env.LoadingURL != "" {
		c.Loading.URL = env.LoadingURL
	}
	if env.Output != "" {
		c.Console.Output = env.Output
		c.Loading.Output = env.Output
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	return nil
}
