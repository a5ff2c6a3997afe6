package nav

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkPolicy controls how anchor targets are adjusted for the current page.
type LinkPolicy struct {
	RootFile   string // file name of the root page, e.g. "index.html"
	RootPrefix string // prepended to links when rendering the root page
	ParentRef  string // prepended to the root file when rendering nested pages
}

// RewriteHref adjusts href for a page of the given kind. On the root page
// every link except the root page itself gains RootPrefix; on nested pages a
// link to the root page is redirected through ParentRef. The second result
// reports whether href changed.
func RewriteHref(href string, kind PageKind, p LinkPolicy) (string, bool) {
	if !isPageRelative(href) {
		return href, false
	}
	rootFile := p.RootFile
	if rootFile == "" {
		rootFile = DefaultRootFile
	}

	switch kind {
	case KindRoot:
		if href != rootFile {
			return p.RootPrefix + href, true
		}
	case KindNested:
		if href == rootFile {
			return p.ParentRef + rootFile, true
		}
	}
	return href, false
}

// isPageRelative reports whether href resolves against the current document's
// directory. Site-absolute, scheme-qualified and fragment-only links do not.
func isPageRelative(href string) bool {
	if href == "" || strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// pageFile returns the file name a path or href refers to, mapping directory
// references to the root file.
func pageFile(ref, rootFile string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if ref == "" || strings.HasSuffix(ref, "/") {
		return rootFile
	}
	return path.Base(ref)
}

// markActive adds class to every anchor in sel whose target file matches the
// current page's file, and strips it from the rest.
func markActive(sel *goquery.Selection, currentPath, rootFile, class string) {
	current := pageFile(currentPath, rootFile)
	sel.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if ok && isPageRelative(href) && pageFile(href, rootFile) == current {
			a.AddClass(class)
		} else {
			a.RemoveClass(class)
		}
		normalizeClass(a)
	})
}

// normalizeClass collapses the whitespace goquery leaves in the class
// attribute and drops the attribute once it is empty.
func normalizeClass(a *goquery.Selection) {
	v, ok := a.Attr("class")
	if !ok {
		return
	}
	if classes := strings.Fields(v); len(classes) > 0 {
		a.SetAttr("class", strings.Join(classes, " "))
	} else {
		a.RemoveAttr("class")
	}
}
