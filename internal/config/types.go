package config

import "time"

// FragmentMode selects how the fragment location is derived for each page.
type FragmentMode string

const (
	FragmentRelative FragmentMode = "relative"
	FragmentAbsolute FragmentMode = "absolute"
	FragmentRepoRoot FragmentMode = "repo-root"
)

// Config is the top-level navinject configuration, corresponding to .navinject.yml.
type Config struct {
	SiteDir       string         `yaml:"site_dir" koanf:"site_dir"`
	BasePath      string         `yaml:"base_path" koanf:"base_path"`
	RootFile      string         `yaml:"root_file" koanf:"root_file"`
	PlaceholderID string         `yaml:"placeholder_id" koanf:"placeholder_id"`
	Fragment      FragmentConfig `yaml:"fragment" koanf:"fragment"`
	Links         LinksConfig    `yaml:"links" koanf:"links"`
	Active        ActiveConfig   `yaml:"active" koanf:"active"`
	FallbackHTML  string         `yaml:"fallback_html" koanf:"fallback_html"`
	Include       []string       `yaml:"include" koanf:"include"`
	Exclude       []string       `yaml:"exclude" koanf:"exclude"`
	Concurrency   int            `yaml:"concurrency" koanf:"concurrency"`
	Serve         ServeConfig    `yaml:"serve" koanf:"serve"`
	LogLevel      string         `yaml:"log_level" koanf:"log_level"`
}

// FragmentConfig describes where the navigation fragment lives.
type FragmentConfig struct {
	Path string       `yaml:"path" koanf:"path"`
	Mode FragmentMode `yaml:"mode" koanf:"mode"`
	// BaseURL, when set, fetches the fragment over HTTP instead of from SiteDir.
	BaseURL  string        `yaml:"base_url" koanf:"base_url"`
	Sanitize bool          `yaml:"sanitize" koanf:"sanitize"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
}

// LinksConfig controls link rewriting.
type LinksConfig struct {
	Selector   string `yaml:"selector" koanf:"selector"`
	Rewrite    bool   `yaml:"rewrite" koanf:"rewrite"`
	RootPrefix string `yaml:"root_prefix" koanf:"root_prefix"`
	ParentRef  string `yaml:"parent_ref" koanf:"parent_ref"`
}

// ActiveConfig controls active-link marking.
type ActiveConfig struct {
	Enabled  bool   `yaml:"enabled" koanf:"enabled"`
	Selector string `yaml:"selector" koanf:"selector"`
	Class    string `yaml:"class" koanf:"class"`
}

// ServeConfig holds settings for the live server.
type ServeConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
