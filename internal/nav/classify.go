// Package nav injects a shared navigation fragment into a page placeholder,
// adjusting link targets for the page's position in the site.
package nav

import "strings"

// PageKind says whether a page is the site's root page or nested below it.
type PageKind string

const (
	KindRoot   PageKind = "root"
	KindNested PageKind = "nested"
)

// DefaultRootFile is the conventional file name of the root page.
const DefaultRootFile = "index.html"

// Classify reports whether currentPath addresses the root page. An empty path
// or "/" is the root, as is any path ending in rootFile.
func Classify(currentPath, rootFile string) PageKind {
	if rootFile == "" {
		rootFile = DefaultRootFile
	}
	if currentPath == "" || currentPath == "/" || strings.HasSuffix(currentPath, rootFile) {
		return KindRoot
	}
	return KindNested
}
