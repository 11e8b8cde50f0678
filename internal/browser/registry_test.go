package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/pageverify/internal/browser"
	"github.com/raysh454/pageverify/internal/logging"
	"github.com/raysh454/pageverify/internal/testutil"
)

func TestListBackends_Defaults(t *testing.T) {
	t.Parallel()
	names := browser.ListBackends()
	assert.Contains(t, names, "chromedp")
	assert.Contains(t, names, "rod")
}

func TestNewFactory_UnknownBackend(t *testing.T) {
	t.Parallel()
	cfg := browser.DefaultConfig()
	cfg.Backend = "netscape"

	f, err := browser.NewFactory(cfg, logging.Nop())
	require.Error(t, err)
	assert.Nil(t, f)
	assert.Contains(t, err.Error(), "not registered")
	assert.Contains(t, err.Error(), "chromedp")
}

func TestNewFactory_UsesRegisteredLauncher(t *testing.T) {
	t.Parallel()
	fake := testutil.NewFakeBrowser()
	var got browser.Config
	browser.RegisterBackend("Fake-Registry", func(_ context.Context, cfg browser.Config, _ logging.Logger) (browser.Browser, error) {
		got = cfg
		return fake, nil
	})

	cfg := browser.Config{Backend: "fake-registry"}
	f, err := browser.NewFactory(cfg, nil)
	require.NoError(t, err)

	b, err := f(context.Background())
	require.NoError(t, err)
	assert.Same(t, fake, b)

	assert.Equal(t, 1280, got.WindowWidth, "defaults applied")
	assert.Equal(t, 720, got.WindowHeight)
	assert.Equal(t, 30*time.Second, got.NavigationTimeout)
}

func TestNewFactory_WrapsLaunchError(t *testing.T) {
	t.Parallel()
	boom := errors.New("no chrome binary")
	browser.RegisterBackend("fake-failing", func(context.Context, browser.Config, logging.Logger) (browser.Browser, error) {
		return nil, boom
	})

	f, err := browser.NewFactory(browser.Config{Backend: "fake-failing"}, logging.Nop())
	require.NoError(t, err)

	_, err = f(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "launching fake-failing browser")
}

func TestNewFactory_NilBrowserIsError(t *testing.T) {
	t.Parallel()
	browser.RegisterBackend("fake-nil", func(context.Context, browser.Config, logging.Logger) (browser.Browser, error) {
		return nil, nil
	})

	f, err := browser.NewFactory(browser.Config{Backend: "fake-nil"}, logging.Nop())
	require.NoError(t, err)
	_, err = f(context.Background())
	assert.Error(t, err)
}

func TestRegisterBackend_IgnoresInvalid(t *testing.T) {
	t.Parallel()
	before := len(browser.ListBackends())
	browser.RegisterBackend("", func(context.Context, browser.Config, logging.Logger) (browser.Browser, error) { return nil, nil })
	browser.RegisterBackend("nil-launcher", nil)
	assert.NotContains(t, browser.ListBackends(), "nil-launcher")
	assert.GreaterOrEqual(t, len(browser.ListBackends()), before)
}
