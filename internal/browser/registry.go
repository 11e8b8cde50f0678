package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raysh454/pageverify/internal/logging"
)

// Launcher launches a Browser for the given config.
type Launcher func(ctx context.Context, cfg Config, logger logging.Logger) (Browser, error)

var (
	mu       sync.RWMutex
	registry = map[string]Launcher{}
)

func init() {
	RegisterBackend(string(BackendChromedp), launchChromedp)
	RegisterBackend(string(BackendRod), launchRod)
}

// RegisterBackend registers a named launcher. Name is lower-cased internally.
// Registering the same name again overwrites the previous launcher.
func RegisterBackend(name string, l Launcher) {
	if name == "" || l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = l
}

// ListBackends returns the registered backend names, sorted.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewFactory resolves cfg.Backend and returns a Factory launching that backend.
// An empty backend selects chromedp.
func NewFactory(cfg Config, logger logging.Logger) (Factory, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = logging.Nop()
	}
	name := strings.ToLower(strings.TrimSpace(string(cfg.Backend)))

	mu.RLock()
	launch, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("browser backend %q not registered: available backends=%v", name, ListBackends())
	}

	componentLogger := logger.With(logging.Field{Key: "backend", Value: name})
	return func(ctx context.Context) (Browser, error) {
		b, err := launch(ctx, cfg, componentLogger)
		if err != nil {
			return nil, fmt.Errorf("launching %s browser: %w", name, err)
		}
		if b == nil {
			return nil, errors.New("browser launcher returned nil")
		}
		return b, nil
	}, nil
}
