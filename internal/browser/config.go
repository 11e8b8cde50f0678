package browser

import "time"

type Backend string

const (
	BackendChromedp Backend = "chromedp"
	BackendRod      Backend = "rod"
)

// Config controls how a browser is launched.
type Config struct {
	Backend Backend

	Headless bool

	// ExecPath overrides browser discovery. Empty means let the backend find one.
	ExecPath string

	// NoSandbox passes --no-sandbox, needed when running as root in containers.
	NoSandbox bool

	WindowWidth  int
	WindowHeight int

	// NavigationTimeout bounds Navigate and the network-idle wait.
	NavigationTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:           BackendChromedp,
		Headless:          true,
		WindowWidth:       1280,
		WindowHeight:      720,
		NavigationTimeout: 30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.WindowWidth <= 0 {
		c.WindowWidth = d.WindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = d.WindowHeight
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = d.NavigationTimeout
	}
	return c
}
