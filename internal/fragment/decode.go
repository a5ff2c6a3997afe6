package fragment

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/navinject/internal/nav"
)

// Decoder wraps a fetcher, rendering markdown fragments to HTML and
// optionally sanitizing the result.
type Decoder struct {
	next   nav.Fetcher
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewDecoder wraps next. When sanitize is set, fragments are passed through
// an HTML policy that keeps links and the attributes navigation markup relies on.
func NewDecoder(next nav.Fetcher, sanitize bool) *Decoder {
	d := &Decoder{
		next: next,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	if sanitize {
		d.policy = newNavPolicy()
	}
	return d
}

// Fetch retrieves sitePath from the wrapped fetcher and decodes it.
func (d *Decoder) Fetch(ctx context.Context, sitePath string) (string, error) {
	raw, err := d.next.Fetch(ctx, sitePath)
	if err != nil {
		return "", err
	}

	if isMarkdown(sitePath) {
		var buf bytes.Buffer
		if err := d.md.Convert([]byte(raw), &buf); err != nil {
			return "", fmt.Errorf("%w: converting markdown: %v", nav.ErrFragmentUnavailable, err)
		}
		raw = buf.String()
	}

	if d.policy != nil {
		raw = d.policy.Sanitize(raw)
	}
	return raw, nil
}

func isMarkdown(sitePath string) bool {
	lower := strings.ToLower(sitePath)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

func newNavPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("nav", "header", "button", "span")
	p.AllowAttrs("class", "id", "role", "title").Globally()
	p.AllowAttrs("aria-label", "aria-current", "aria-expanded", "aria-controls", "aria-haspopup").Globally()
	p.AllowAttrs("data-bs-toggle", "data-bs-target", "data-toggle", "data-target").Globally()
	p.AllowAttrs("type").OnElements("button")
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)
	return p
}
