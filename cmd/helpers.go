package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/navinject/internal/config"
	"github.com/ziadkadry99/navinject/internal/fragment"
	"github.com/ziadkadry99/navinject/internal/nav"
	"github.com/ziadkadry99/navinject/internal/walker"
)

// loadConfig validates the config loaded before the command ran, providing a
// user-friendly error.
func loadConfig() (*config.Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w\nRun `navinject init` to create a config file", cfgFile, err)
	}
	if info, err := os.Stat(cfg.SiteDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("site directory %q not found", cfg.SiteDir)
	}
	return cfg, nil
}

// createFetcherFromConfig builds the fragment fetcher: HTTP when a base URL
// is configured, the site directory otherwise.
func createFetcherFromConfig(c *config.Config) nav.Fetcher {
	var f nav.Fetcher
	if c.Fragment.BaseURL != "" {
		f = fragment.NewHTTPFetcher(c.Fragment.BaseURL, c.Fragment.Timeout)
	} else {
		f = &fragment.FSFetcher{FS: os.DirFS(c.SiteDir), BasePath: c.BasePath}
	}
	return fragment.NewDecoder(f, c.Fragment.Sanitize)
}

// createInjectorFromConfig wires the navigation injector.
func createInjectorFromConfig(c *config.Config, log *zap.Logger) *nav.Injector {
	return nav.New(createFetcherFromConfig(c), log, c.InjectorOptions())
}

// fragmentRelPath is the fragment's path relative to the site directory.
func fragmentRelPath(c *config.Config) string {
	return strings.TrimPrefix(filepath.ToSlash(c.Fragment.Path), "/")
}

// discoverPages lists the pages the config selects.
func discoverPages(c *config.Config) ([]walker.Page, error) {
	pages, err := walker.Walk(walker.WalkerConfig{
		RootDir:  c.SiteDir,
		BasePath: c.BasePath,
		Include:  c.Include,
		Exclude:  c.Exclude,
		Skip:     []string{fragmentRelPath(c)},
	})
	if err != nil {
		return nil, fmt.Errorf("discovering pages: %w", err)
	}
	return pages, nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
