package nav

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultFallbackHTML is written into the placeholder when the fragment cannot
// be loaded.
const DefaultFallbackHTML = `<div class="alert alert-warning nav-error" role="alert">Navigation could not be loaded.</div>`

// Fetcher retrieves the raw fragment stored at a site-absolute path.
type Fetcher interface {
	Fetch(ctx context.Context, sitePath string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, sitePath string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, sitePath string) (string, error) {
	return f(ctx, sitePath)
}

// Writer is the page the fragment is written into.
type Writer interface {
	// HasElement reports whether an element with the given id exists.
	HasElement(id string) bool
	// ReplaceContent replaces the contents of the element with the given id.
	ReplaceContent(id, markup string) error
}

// Options configures an Injector. Empty string fields fall back to
// DefaultOptions; boolean switches are taken as given.
type Options struct {
	PlaceholderID string
	FragmentPath  string
	PathMode      PathMode

	LinkSelector string
	RewriteLinks bool
	Links        LinkPolicy

	MarkActive     bool
	ActiveSelector string
	ActiveClass    string

	FallbackHTML string
}

// DefaultOptions returns the canonical policy: relative fragment path, link
// rewriting on, active marking off.
func DefaultOptions() Options {
	return Options{
		PlaceholderID: "nav-placeholder",
		FragmentPath:  "github-io/components/nav.html",
		PathMode:      PathRelative,
		LinkSelector:  "a.nav-link, .navbar-brand",
		RewriteLinks:  true,
		Links: LinkPolicy{
			RootFile:   DefaultRootFile,
			RootPrefix: "github-io/",
			ParentRef:  "../",
		},
		ActiveSelector: "a.nav-link",
		ActiveClass:    "active",
		FallbackHTML:   DefaultFallbackHTML,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PlaceholderID == "" {
		o.PlaceholderID = d.PlaceholderID
	}
	if o.FragmentPath == "" {
		o.FragmentPath = d.FragmentPath
	}
	if o.PathMode == "" {
		o.PathMode = d.PathMode
	}
	if o.LinkSelector == "" {
		o.LinkSelector = d.LinkSelector
	}
	if o.Links.RootFile == "" {
		o.Links.RootFile = d.Links.RootFile
	}
	if o.ActiveSelector == "" {
		o.ActiveSelector = d.ActiveSelector
	}
	if o.ActiveClass == "" {
		o.ActiveClass = d.ActiveClass
	}
	if o.FallbackHTML == "" {
		o.FallbackHTML = d.FallbackHTML
	}
	return o
}

// Result describes the outcome of one Load.
type Result struct {
	Kind         PageKind
	FragmentPath string
	Fallback     bool  // the fallback notice was written instead of the fragment
	Cause        error // why the fallback was used
}

// Injector performs the per-page navigation load. It keeps no state between
// loads and is safe for concurrent use.
type Injector struct {
	fetcher Fetcher
	logger  *zap.Logger
	opts    Options
}

// New creates an Injector. A nil logger discards diagnostics.
func New(fetcher Fetcher, logger *zap.Logger, opts Options) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Injector{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts.withDefaults(),
	}
}

// Options returns the effective options.
func (i *Injector) Options() Options { return i.opts }

// Load fetches the fragment for currentPath and writes it, or the fallback
// notice, into the placeholder. The fragment is fetched on every call. The
// returned error is non-nil only when the page has no placeholder
// (ErrPlaceholderNotFound) or the writer rejects the content.
func (i *Injector) Load(ctx context.Context, currentPath string, w Writer) (Result, error) {
	kind := Classify(currentPath, i.opts.Links.RootFile)
	res := Result{
		Kind:         kind,
		FragmentPath: ResolveFragmentPath(currentPath, kind, i.opts.FragmentPath, i.opts.PathMode),
	}

	if !w.HasElement(i.opts.PlaceholderID) {
		return res, fmt.Errorf("%w: #%s", ErrPlaceholderNotFound, i.opts.PlaceholderID)
	}

	body, err := i.render(ctx, currentPath, res.FragmentPath)
	if err != nil {
		res.Fallback = true
		res.Cause = err
		i.logger.Error("navigation fragment unavailable",
			zap.String("load_id", uuid.NewString()),
			zap.String("page", currentPath),
			zap.String("fragment", res.FragmentPath),
			zap.Error(err),
		)
		body = i.opts.FallbackHTML
	} else {
		i.logger.Debug("navigation injected",
			zap.String("page", currentPath),
			zap.String("kind", string(kind)),
			zap.String("fragment", res.FragmentPath),
		)
	}

	if err := w.ReplaceContent(i.opts.PlaceholderID, body); err != nil {
		return res, fmt.Errorf("writing placeholder %q: %w", i.opts.PlaceholderID, err)
	}
	return res, nil
}

// Render fetches and transforms the fragment for currentPath without writing
// it anywhere.
func (i *Injector) Render(ctx context.Context, currentPath string) (string, Result, error) {
	kind := Classify(currentPath, i.opts.Links.RootFile)
	res := Result{
		Kind:         kind,
		FragmentPath: ResolveFragmentPath(currentPath, kind, i.opts.FragmentPath, i.opts.PathMode),
	}
	body, err := i.render(ctx, currentPath, res.FragmentPath)
	if err != nil {
		res.Fallback = true
		res.Cause = err
		return i.opts.FallbackHTML, res, err
	}
	return body, res, nil
}

func (i *Injector) render(ctx context.Context, currentPath, fragmentPath string) (string, error) {
	raw, err := i.fetcher.Fetch(ctx, fragmentPath)
	if err != nil {
		if !errors.Is(err, ErrFragmentUnavailable) {
			err = fmt.Errorf("%w: %w", ErrFragmentUnavailable, err)
		}
		return "", fmt.Errorf("fetching %s: %w", fragmentPath, err)
	}
	body, err := i.Transform(raw, currentPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFragmentUnavailable, err)
	}
	return body, nil
}

// Transform applies link rewriting and active marking to fragment as seen
// from currentPath and returns the fragment body's inner HTML.
func (i *Injector) Transform(fragment, currentPath string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing fragment: %w", err)
	}
	kind := Classify(currentPath, i.opts.Links.RootFile)

	if i.opts.RewriteLinks {
		doc.Find(i.opts.LinkSelector).Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			if rewritten, changed := RewriteHref(href, kind, i.opts.Links); changed {
				a.SetAttr("href", rewritten)
			}
		})
	}

	if i.opts.MarkActive {
		markActive(doc.Find(i.opts.ActiveSelector), currentPath, i.opts.Links.RootFile, i.opts.ActiveClass)
	}

	return doc.Find("body").Html()
}
