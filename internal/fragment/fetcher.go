// Package fragment retrieves navigation fragments for the injector.
package fragment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/ziadkadry99/navinject/internal/nav"
)

// maxFragmentSize caps how much of a fragment response is read.
const maxFragmentSize = 4 << 20

// HTTPFetcher fetches fragments from a running site over HTTP.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher returns a fetcher rooted at baseURL. A zero timeout leaves
// the transport defaults in charge.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch issues a single GET for sitePath. There are no retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, sitePath string) (string, error) {
	url := f.BaseURL + "/" + strings.TrimPrefix(sitePath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", nav.ErrFragmentUnavailable, err)
	}
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9, */*;q=0.1")
	req.Header.Set("Cache-Control", "no-cache")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", nav.ErrFragmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: GET %s returned %s", nav.ErrFragmentUnavailable, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", nav.ErrFragmentUnavailable, err)
	}
	return string(body), nil
}

// FSFetcher reads fragments from a file system rooted at the site directory.
type FSFetcher struct {
	FS fs.FS
	// BasePath is the URL prefix the site is served under; it is stripped
	// before the file system lookup.
	BasePath string
}

// Fetch reads sitePath from the file system.
func (f *FSFetcher) Fetch(ctx context.Context, sitePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", nav.ErrFragmentUnavailable, err)
	}
	name := sitePath
	if base := "/" + strings.Trim(f.BasePath, "/"); base != "/" {
		if name != base && !strings.HasPrefix(name, base+"/") {
			return "", fmt.Errorf("%w: %s is outside %s", nav.ErrFragmentUnavailable, sitePath, base)
		}
		name = strings.TrimPrefix(name, base)
	}
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: invalid path %q", nav.ErrFragmentUnavailable, sitePath)
	}
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", nav.ErrFragmentUnavailable, sitePath)
		}
		return "", fmt.Errorf("%w: %v", nav.ErrFragmentUnavailable, err)
	}
	return string(data), nil
}
