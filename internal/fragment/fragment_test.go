package fragment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/navinject/internal/nav"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	var gotPath, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCache = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<nav>ok</nav>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", 0)
	body, err := f.Fetch(context.Background(), "/github-io/components/nav.html")
	require.NoError(t, err)
	assert.Equal(t, `<nav>ok</nav>`, body)
	assert.Equal(t, "/github-io/components/nav.html", gotPath)
	assert.Equal(t, "no-cache", gotCache)
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, 0)
	_, err := f.Fetch(context.Background(), "/nav.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, 1, calls, "failed fetches are not retried")
}

func TestHTTPFetcherNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewHTTPFetcher(url, 0)
	_, err := f.Fetch(context.Background(), "/nav.html")
	require.Error(t, err)
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)
}

func TestFSFetcher(t *testing.T) {
	fsys := fstest.MapFS{
		"github-io/components/nav.html": {Data: []byte(`<nav>fs</nav>`)},
	}
	f := &FSFetcher{FS: fsys}

	body, err := f.Fetch(context.Background(), "/github-io/components/nav.html")
	require.NoError(t, err)
	assert.Equal(t, `<nav>fs</nav>`, body)

	_, err = f.Fetch(context.Background(), "/missing.html")
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)

	_, err = f.Fetch(context.Background(), "/../etc/passwd")
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)
}

func TestFSFetcherCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &FSFetcher{FS: fstest.MapFS{"nav.html": {Data: []byte("x")}}}
	_, err := f.Fetch(ctx, "/nav.html")
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)
}

func TestDecoderRendersMarkdown(t *testing.T) {
	fsys := fstest.MapFS{
		"nav.md": {Data: []byte("[Home](index.html) [About](about.html)\n")},
	}
	d := NewDecoder(&FSFetcher{FS: fsys}, false)

	body, err := d.Fetch(context.Background(), "/nav.md")
	require.NoError(t, err)
	assert.Contains(t, body, `<a href="index.html">Home</a>`)
	assert.Contains(t, body, `<a href="about.html">About</a>`)
}

func TestDecoderPassesHTMLThrough(t *testing.T) {
	fsys := fstest.MapFS{"nav.html": {Data: []byte(`<nav><script>x()</script></nav>`)}}
	d := NewDecoder(&FSFetcher{FS: fsys}, false)

	body, err := d.Fetch(context.Background(), "/nav.html")
	require.NoError(t, err)
	assert.Equal(t, `<nav><script>x()</script></nav>`, body)
}

func TestDecoderSanitizes(t *testing.T) {
	fsys := fstest.MapFS{
		"nav.html": {Data: []byte(`<nav class="navbar"><a class="nav-link" href="about.html" onclick="steal()">About</a><script>alert(1)</script></nav>`)},
	}
	d := NewDecoder(&FSFetcher{FS: fsys}, true)

	body, err := d.Fetch(context.Background(), "/nav.html")
	require.NoError(t, err)
	assert.Contains(t, body, `class="nav-link"`)
	assert.Contains(t, body, `href="about.html"`)
	assert.Contains(t, body, `<nav class="navbar">`)
	assert.NotContains(t, body, "onclick")
	assert.NotContains(t, body, "script")
	assert.NotContains(t, body, "nofollow")
}

func TestDecoderPropagatesFetchError(t *testing.T) {
	d := NewDecoder(&FSFetcher{FS: fstest.MapFS{}}, true)
	_, err := d.Fetch(context.Background(), "/nav.html")
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)
}

func TestFSFetcherBasePath(t *testing.T) {
	f := &FSFetcher{
		FS:       fstest.MapFS{"components/nav.html": {Data: []byte(`<nav>base</nav>`)}},
		BasePath: "/repo/",
	}

	body, err := f.Fetch(context.Background(), "/repo/components/nav.html")
	require.NoError(t, err)
	assert.Equal(t, `<nav>base</nav>`, body)

	_, err = f.Fetch(context.Background(), "/other/components/nav.html")
	assert.ErrorIs(t, err, nav.ErrFragmentUnavailable)
}
