package config

import "github.com/ziadkadry99/navinject/internal/nav"

// DefaultConfigFile is the config file name looked up in the working directory.
const DefaultConfigFile = ".navinject.yml"

// DefaultExcludes are glob patterns never treated as pages.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"vendor/**",
	"**/components/**",
	"**/partials/**",
}

// DefaultConfig returns a Config matching the site's browser-side loader.
func DefaultConfig() *Config {
	opts := nav.DefaultOptions()
	return &Config{
		SiteDir:       ".",
		RootFile:      opts.Links.RootFile,
		PlaceholderID: opts.PlaceholderID,
		Fragment: FragmentConfig{
			Path: opts.FragmentPath,
			Mode: FragmentRelative,
		},
		Links: LinksConfig{
			Selector:   opts.LinkSelector,
			Rewrite:    opts.RewriteLinks,
			RootPrefix: opts.Links.RootPrefix,
			ParentRef:  opts.Links.ParentRef,
		},
		Active: ActiveConfig{
			Enabled:  opts.MarkActive,
			Selector: opts.ActiveSelector,
			Class:    opts.ActiveClass,
		},
		FallbackHTML: opts.FallbackHTML,
		Include:      []string{"**/*.html"},
		Exclude:      DefaultExcludes,
		Concurrency:  4,
		Serve: ServeConfig{
			Port: 8080,
		},
		LogLevel: "info",
	}
}

// InjectorOptions converts the config into injector options.
func (c *Config) InjectorOptions() nav.Options {
	return nav.Options{
		PlaceholderID: c.PlaceholderID,
		FragmentPath:  c.Fragment.Path,
		PathMode:      nav.PathMode(c.Fragment.Mode),
		LinkSelector:  c.Links.Selector,
		RewriteLinks:  c.Links.Rewrite,
		Links: nav.LinkPolicy{
			RootFile:   c.RootFile,
			RootPrefix: c.Links.RootPrefix,
			ParentRef:  c.Links.ParentRef,
		},
		MarkActive:     c.Active.Enabled,
		ActiveSelector: c.Active.Selector,
		ActiveClass:    c.Active.Class,
		FallbackHTML:   c.FallbackHTML,
	}
}
