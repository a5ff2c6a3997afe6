package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: NAVINJECT_FRAGMENT__MODE -> fragment.mode.
const EnvPrefix = "NAVINJECT_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NAVINJECT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validModes = map[FragmentMode]bool{
	FragmentRelative: true,
	FragmentAbsolute: true,
	FragmentRepoRoot: true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteDir == "" {
		return fmt.Errorf("site_dir is required")
	}
	if c.RootFile == "" {
		return fmt.Errorf("root_file is required")
	}
	if strings.Contains(c.RootFile, "/") {
		return fmt.Errorf("root_file %q must be a file name, not a path", c.RootFile)
	}
	if c.PlaceholderID == "" {
		return fmt.Errorf("placeholder_id is required")
	}

	if c.Fragment.Path == "" {
		return fmt.Errorf("fragment.path is required")
	}
	if !validModes[c.Fragment.Mode] {
		return fmt.Errorf("invalid fragment.mode %q: must be one of relative, absolute, repo-root", c.Fragment.Mode)
	}
	if c.Fragment.BaseURL != "" {
		u, err := url.Parse(c.Fragment.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid fragment.base_url %q: must be an absolute http(s) URL", c.Fragment.BaseURL)
		}
	}
	if c.Fragment.Timeout < 0 {
		return fmt.Errorf("fragment.timeout must be non-negative")
	}

	if c.Links.Rewrite && c.Links.Selector == "" {
		return fmt.Errorf("links.selector is required when links.rewrite is enabled")
	}
	if c.Active.Enabled && (c.Active.Selector == "" || c.Active.Class == "") {
		return fmt.Errorf("active.selector and active.class are required when active.enabled is set")
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	return nil
}
