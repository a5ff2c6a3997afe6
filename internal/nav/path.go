package nav

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// PathMode selects how the fragment location is derived from the current page.
type PathMode string

const (
	// PathRelative addresses the fragment relative to the current page's
	// directory: as-is from the root page, one level up from nested pages.
	PathRelative PathMode = "relative"
	// PathAbsolute addresses the fragment from the site root regardless of depth.
	PathAbsolute PathMode = "absolute"
	// PathRepoRoot guesses the repository root from the first segment of the
	// current path, as project sites are served below /<repo>/.
	PathRepoRoot PathMode = "repo-root"
)

// ParsePathMode converts a config value into a PathMode.
func ParsePathMode(s string) (PathMode, error) {
	switch m := PathMode(strings.ToLower(strings.TrimSpace(s))); m {
	case PathRelative, PathAbsolute, PathRepoRoot:
		return m, nil
	case "":
		return PathRelative, nil
	default:
		return "", fmt.Errorf("invalid fragment mode %q: must be one of relative, absolute, repo-root", s)
	}
}

// ResolveFragmentPath returns the site-absolute path the fragment is fetched
// from when rendering currentPath.
func ResolveFragmentPath(currentPath string, kind PageKind, fragmentPath string, mode PathMode) string {
	rel := strings.TrimPrefix(fragmentPath, "/")

	switch mode {
	case PathAbsolute:
		return path.Clean("/" + rel)

	case PathRepoRoot:
		// "/repo/" and "/repo/index.html" both name the project root.
		segs := strings.SplitN(strings.TrimPrefix(currentPath, "/"), "/", 2)
		if len(segs) == 2 && segs[0] != "" {
			return path.Clean("/" + segs[0] + "/" + rel)
		}
		return path.Clean("/" + rel)

	default:
		ref := rel
		if kind == KindNested {
			ref = "../" + rel
		}
		return resolveAgainst(currentPath, ref)
	}
}

// resolveAgainst resolves ref the way a browser would from a document served
// at currentPath.
func resolveAgainst(currentPath, ref string) string {
	if currentPath == "" || !strings.HasPrefix(currentPath, "/") {
		currentPath = "/" + currentPath
	}
	base := &url.URL{Path: currentPath}
	refURL, err := url.Parse(ref)
	if err != nil {
		return path.Clean("/" + ref)
	}
	return base.ResolveReference(refURL).Path
}
