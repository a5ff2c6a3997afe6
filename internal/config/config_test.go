package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/navinject/internal/nav"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "nav-placeholder", cfg.PlaceholderID)
	assert.Equal(t, "index.html", cfg.RootFile)
	assert.Equal(t, FragmentRelative, cfg.Fragment.Mode)
	assert.Equal(t, "github-io/components/nav.html", cfg.Fragment.Path)
	assert.True(t, cfg.Links.Rewrite)
	assert.Equal(t, "github-io/", cfg.Links.RootPrefix)
	assert.False(t, cfg.Active.Enabled)
	assert.Equal(t, 8080, cfg.Serve.Port)
	require.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.navinject.yml")

	original := DefaultConfig()
	original.SiteDir = "public"
	original.Fragment.Mode = FragmentAbsolute
	original.Fragment.Timeout = 5 * time.Second
	original.Active.Enabled = true
	original.Links.Rewrite = false
	original.Include = []string{"**/*.html", "**/*.htm"}

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "public", loaded.SiteDir)
	assert.Equal(t, FragmentAbsolute, loaded.Fragment.Mode)
	assert.Equal(t, 5*time.Second, loaded.Fragment.Timeout)
	assert.True(t, loaded.Active.Enabled)
	assert.False(t, loaded.Links.Rewrite)
	assert.Equal(t, original.Include, loaded.Include)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	require.NoError(t, err, "a missing file yields defaults")
	assert.Equal(t, DefaultConfig().PlaceholderID, cfg.PlaceholderID)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	require.NoError(t, os.WriteFile(path, []byte("fragment:\n  mode: repo-root\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FragmentRepoRoot, cfg.Fragment.Mode)
	assert.Equal(t, "github-io/components/nav.html", cfg.Fragment.Path)
	assert.True(t, cfg.Links.Rewrite)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	require.NoError(t, DefaultConfig().Save(path))

	t.Setenv("NAVINJECT_PLACEHOLDER_ID", "site-nav")
	t.Setenv("NAVINJECT_FRAGMENT__MODE", "absolute")
	t.Setenv("NAVINJECT_ACTIVE__ENABLED", "true")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site-nav", loaded.PlaceholderID)
	assert.Equal(t, FragmentAbsolute, loaded.Fragment.Mode)
	assert.True(t, loaded.Active.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty site dir", func(c *Config) { c.SiteDir = "" }},
		{"empty root file", func(c *Config) { c.RootFile = "" }},
		{"root file with dir", func(c *Config) { c.RootFile = "a/index.html" }},
		{"empty placeholder", func(c *Config) { c.PlaceholderID = "" }},
		{"empty fragment path", func(c *Config) { c.Fragment.Path = "" }},
		{"bad mode", func(c *Config) { c.Fragment.Mode = "sideways" }},
		{"bad base url", func(c *Config) { c.Fragment.BaseURL = "ftp://example.com" }},
		{"negative timeout", func(c *Config) { c.Fragment.Timeout = -time.Second }},
		{"rewrite without selector", func(c *Config) { c.Links.Selector = "" }},
		{"active without class", func(c *Config) { c.Active.Enabled = true; c.Active.Class = "" }},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAcceptsBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fragment.BaseURL = "https://example.github.io"
	assert.NoError(t, cfg.Validate())
}

func TestInjectorOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fragment.Mode = FragmentRepoRoot
	cfg.Active.Enabled = true

	opts := cfg.InjectorOptions()
	assert.Equal(t, nav.PathRepoRoot, opts.PathMode)
	assert.True(t, opts.MarkActive)
	assert.True(t, opts.RewriteLinks)
	assert.Equal(t, "nav-placeholder", opts.PlaceholderID)
	assert.Equal(t, "../", opts.Links.ParentRef)
}

func TestDetectFragment(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, detectFragment(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "partials"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partials", "nav.html"), []byte("<nav></nav>"), 0o644))
	assert.Equal(t, "partials/nav.html", detectFragment(dir))
}
