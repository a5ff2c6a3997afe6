package walker

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdataDir returns the absolute path to the testdata/site directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "unable to determine test file location")
	root, err := filepath.Abs(filepath.Join(filepath.Dir(filename), "..", "..", "testdata", "site"))
	require.NoError(t, err)
	_, err = os.Stat(root)
	require.NoError(t, err, "testdata dir does not exist: %s", root)
	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func relPaths(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.RelPath)
	}
	sort.Strings(out)
	return out
}

func TestWalk_SampleSite(t *testing.T) {
	pages, err := Walk(WalkerConfig{
		RootDir: testdataDir(t),
		Include: []string{"**/*.html"},
		Skip:    []string{"github-io/components/nav.html"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"github-io/about.html",
		"github-io/projects.html",
		"index.html",
	}, relPaths(pages))
}

func TestWalk_PageFields(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/guide.html", "<html></html>")

	pages, err := Walk(WalkerConfig{RootDir: root, BasePath: "/repo", Include: []string{"**/*.html"}})
	require.NoError(t, err)
	require.Len(t, pages, 1)

	p := pages[0]
	assert.Equal(t, "docs/guide.html", p.RelPath)
	assert.Equal(t, "/repo/docs/guide.html", p.URLPath)
	assert.Equal(t, int64(len("<html></html>")), p.Size)
	assert.True(t, filepath.IsAbs(p.Path))
}

func TestWalk_ExcludeFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "x")
	writeFile(t, root, "partials/nav.html", "x")
	writeFile(t, root, "drafts/wip.html", "x")

	pages, err := Walk(WalkerConfig{
		RootDir: root,
		Include: []string{"**/*.html"},
		Exclude: []string{"**/partials/**", "drafts/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, relPaths(pages))
}

func TestWalk_SkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html></html>")
	writeFile(t, root, "broken.html", "\x00\x01\x02")

	pages, err := Walk(WalkerConfig{RootDir: root, Include: []string{"*.html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, relPaths(pages))
}

func TestWalk_SkipsLargeFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.html", "<p>ok</p>")
	writeFile(t, root, "huge.html", string(make([]byte, 200)))

	pages, err := Walk(WalkerConfig{RootDir: root, Include: []string{"*.html"}, MaxFileSize: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.html"}, relPaths(pages))
}

func TestWalk_DefaultExcludeDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "x")
	writeFile(t, root, "node_modules/pkg/readme.html", "x")
	writeFile(t, root, ".git/info.html", "x")

	pages, err := Walk(WalkerConfig{RootDir: root, Include: []string{"**/*.html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, relPaths(pages))
}

func TestWalk_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "# generated\n_site/\nscratch.html\n")
	writeFile(t, root, "index.html", "x")
	writeFile(t, root, "scratch.html", "x")
	writeFile(t, root, "_site/index.html", "x")

	pages, err := Walk(WalkerConfig{RootDir: root, Include: []string{"**/*.html"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, relPaths(pages))
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk(WalkerConfig{RootDir: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestURLPath(t *testing.T) {
	assert.Equal(t, "/index.html", URLPath("", "index.html"))
	assert.Equal(t, "/repo/a/b.html", URLPath("/repo/", "a/b.html"))
	assert.Equal(t, "/repo/index.html", URLPath("repo", "index.html"))
}

// --- Filter tests ---

func TestMatchesInclude_Empty(t *testing.T) {
	assert.True(t, MatchesInclude("anything.html", nil), "empty include patterns should include everything")
}

func TestMatchesInclude_Pattern(t *testing.T) {
	assert.True(t, MatchesInclude("index.html", []string{"*.html"}))
	assert.False(t, MatchesInclude("style.css", []string{"*.html"}))
}

func TestMatchesExclude_Empty(t *testing.T) {
	assert.False(t, MatchesExclude("anything.html", nil), "empty exclude patterns should exclude nothing")
}

func TestMatchesInclude_DoubleStarPattern(t *testing.T) {
	assert.True(t, MatchesInclude("github-io/about.html", []string{"**/*.html"}))
	assert.True(t, MatchesInclude("index.html", []string{"**/*.html"}))
}

func TestSelected(t *testing.T) {
	include := []string{"**/*.html"}
	exclude := []string{"**/components/**"}

	assert.True(t, Selected("index.html", include, exclude))
	assert.True(t, Selected("github-io/about.html", include, exclude))
	assert.False(t, Selected("github-io/components/nav.html", include, exclude))
	assert.False(t, Selected("css/site.css", include, exclude))
}

func TestExcludedDir(t *testing.T) {
	assert.True(t, ExcludedDir(".git"))
	assert.True(t, ExcludedDir("Node_Modules"))
	assert.False(t, ExcludedDir("github-io"))
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashBytes(nil))
	assert.Equal(t, HashBytes([]byte("<html></html>")), HashBytes([]byte("<html></html>")))
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
}
