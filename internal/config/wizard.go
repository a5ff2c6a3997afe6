package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// fragmentCandidates are common locations of a shared nav fragment, checked
// relative to the site directory.
var fragmentCandidates = []string{
	"github-io/components/nav.html",
	"components/nav.html",
	"partials/nav.html",
	"_includes/nav.html",
	"nav.html",
	"nav.md",
}

// detectFragment returns the first fragment candidate that exists under siteDir.
func detectFragment(siteDir string) string {
	for _, c := range fragmentCandidates {
		if _, err := os.Stat(filepath.Join(siteDir, filepath.FromSlash(c))); err == nil {
			return c
		}
	}
	return ""
}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to navinject! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site directory.
	sitePrompt := promptui.Prompt{
		Label:   "Site directory",
		Default: cfg.SiteDir,
	}
	siteDir, err := sitePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("site directory: %w", err)
	}
	cfg.SiteDir = siteDir

	// 2. Fragment path.
	fragmentDefault := cfg.Fragment.Path
	if found := detectFragment(siteDir); found != "" {
		fmt.Printf("Found navigation fragment: %s\n\n", found)
		fragmentDefault = found
	}
	fragmentPrompt := promptui.Prompt{
		Label:   "Fragment path (relative to the site root)",
		Default: fragmentDefault,
	}
	fragmentPath, err := fragmentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("fragment path: %w", err)
	}
	cfg.Fragment.Path = fragmentPath

	// 3. Fetch mode.
	modePrompt := promptui.Select{
		Label: "How should pages locate the fragment",
		Items: []string{
			"relative  - from the page's directory (root vs nested)",
			"absolute  - always from the site root",
			"repo-root - from the first path segment (project sites)",
		},
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	modes := []FragmentMode{FragmentRelative, FragmentAbsolute, FragmentRepoRoot}
	cfg.Fragment.Mode = modes[modeIdx]

	// 4. Placeholder id.
	placeholderPrompt := promptui.Prompt{
		Label:   "Placeholder element id",
		Default: cfg.PlaceholderID,
	}
	placeholder, err := placeholderPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("placeholder id: %w", err)
	}
	cfg.PlaceholderID = strings.TrimPrefix(placeholder, "#")

	// 5. Link policies.
	cfg.Links.Rewrite, err = confirm("Rewrite links for root and nested pages", true)
	if err != nil {
		return nil, err
	}
	cfg.Active.Enabled, err = confirm("Mark the current page's link as active", false)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// confirm asks a yes/no question. promptui reports "no" as ErrAbort.
func confirm(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   d,
	}
	_, err := p.Run()
	if err == promptui.ErrAbort {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return true, nil
}
