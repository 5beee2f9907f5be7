package wikilinks

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argc.in/wikilinks/pkg/db"
)

func newTestWiki(t *testing.T, config Config) (*Wiki, *db.FileSystem) {
	t.Helper()
	fs, err := db.New(filepath.Join(t.TempDir(), "wiki.db"))
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	require.NoError(t, fs.Save(db.File{Space: "Main", Name: "WebHome", Data: "Welcome. See [Sandbox.TestPage] and [Main.Missing]."}))
	require.NoError(t, fs.Save(db.File{Space: "Sandbox", Name: "TestPage", Data: "Back to [Home|Main.WebHome]."}))

	w, err := New(fs, config)
	require.NoError(t, err)
	return w, fs
}

func get(t *testing.T, w *Wiki, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	w.Handler(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestViewPage(t *testing.T) {
	w, _ := newTestWiki(t, Config{ShowCreate: true})

	rec := get(t, w, "/view/Main/WebHome")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/view/Sandbox/TestPage"`)
	assert.Contains(t, body, "Test Page</a>")
	assert.Contains(t, body, `<span class="wikicreatelink">Missing<a href="/edit/Main/Missing"`)
	assert.Contains(t, body, "<title>Web Home</title>")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = get(t, w, "/view/Sandbox/TestPage")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/view/Main/WebHome"`)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestViewMissingPage(t *testing.T) {
	w, _ := newTestWiki(t, Config{})
	assert.Equal(t, http.StatusNotFound, get(t, w, "/view/Main/Nope").Code)

	w, _ = newTestWiki(t, Config{ShowCreate: true})
	rec := get(t, w, "/view/Main/Nope")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/edit/Main/Nope", rec.Header().Get("Location"))
}

func TestMissingPageWithoutCreate(t *testing.T) {
	w, _ := newTestWiki(t, Config{})
	rec := get(t, w, "/view/Main/WebHome")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "and Main.Missing.")
	assert.NotContains(t, rec.Body.String(), "/edit/Main/Missing")
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestPlainLinks(t *testing.T) {
	w, _ := newTestWiki(t, Config{PlainLinks: true})
	rec := get(t, w, "/view/Main/WebHome")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "See [Sandbox.TestPage] and [Main.Missing].")
}

func TestRootAndRobots(t *testing.T) {
	w, _ := newTestWiki(t, Config{})

	rec := get(t, w, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/view/Main/WebHome", rec.Header().Get("Location"))

	rec = get(t, w, "/robots.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disallow: /")

	assert.Equal(t, http.StatusNotFound, get(t, w, "/nowhere").Code)
}

func TestEditAndSave(t *testing.T) {
	w, fs := newTestWiki(t, Config{ShowCreate: true})

	rec := get(t, w, "/edit/Main/Missing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/edit/Main/Missing"`)

	form := url.Values{"data": {"Now it exists, see [Main.WebHome#top]."}}
	req := httptest.NewRequest(http.MethodPost, "/edit/Main/Missing", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	w.Handler(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/view/Main/Missing", rec.Header().Get("Location"))

	ok, err := fs.Exists("Main", "Missing")
	require.NoError(t, err)
	assert.True(t, ok)

	rec = get(t, w, "/view/Main/Missing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/view/Main/WebHome#top"`)

	// the home page no longer offers to create the page
	rec = get(t, w, "/view/Main/WebHome")
	assert.Contains(t, rec.Body.String(), `href="/view/Main/Missing"`)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestListSpace(t *testing.T) {
	w, _ := newTestWiki(t, Config{})
	rec := get(t, w, "/view/Main/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/view/Main/WebHome">Web Home</a>`)
}

func TestRenderCountsViews(t *testing.T) {
	w, fs := newTestWiki(t, Config{})
	_, cacheable, err := w.Render("Sandbox", "TestPage")
	require.NoError(t, err)
	assert.True(t, cacheable)

	f, err := fs.Get("Sandbox", "TestPage")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Views)
}

func TestInterWikiFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intermap.txt")
	require.NoError(t, os.WriteFile(path, []byte("Tracker https://tracker.example.com/issue/\n"), 0644))

	w, _ := newTestWiki(t, Config{InterWikiFile: path})
	assert.True(t, w.InterWiki().Contains("Tracker"))
	assert.True(t, w.InterWiki().Contains("Wikipedia"))

	out, cacheable, err := w.RenderText("[Bug 42|42@Tracker]")
	require.NoError(t, err)
	assert.True(t, cacheable)
	assert.Contains(t, string(out), `href="https://tracker.example.com/issue/42"`)
	assert.Contains(t, string(out), "Bug 42</a>")

	_, err = New(nil, Config{InterWikiFile: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestURLPrefixes(t *testing.T) {
	w, _ := newTestWiki(t, Config{ViewURL: "/pages/", EditURL: "/write/", ShowCreate: true})
	assert.Equal(t, "/pages", w.Config.ViewURL)
	assert.Equal(t, "/write", w.Config.EditURL)

	rec := get(t, w, "/")
	assert.Equal(t, "/pages/Main/WebHome", rec.Header().Get("Location"))

	rec = get(t, w, "/pages/Main/WebHome")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/pages/Sandbox/TestPage"`)
	assert.Contains(t, rec.Body.String(), `<a href="/write/Main/Missing"`)

	assert.Equal(t, http.StatusNotFound, get(t, w, "/view/Main/WebHome").Code)
}

func TestFilterText(t *testing.T) {
	w, _ := newTestWiki(t, Config{ShowCreate: true})

	out, cacheable := w.FilterText("*see* [Sandbox.TestPage]")
	assert.True(t, cacheable)
	assert.Equal(t, `*see* <span class="wikilink"><a href="/view/Sandbox/TestPage">Test Page</a></span>`, out)

	out, cacheable = w.FilterText("[Main.Missing]")
	assert.False(t, cacheable)
	assert.Contains(t, out, `href="/edit/Main/Missing"`)
}

func TestRenderTextKeepsMarkdown(t *testing.T) {
	w, _ := newTestWiki(t, Config{ShowCreate: true})

	out, cacheable, err := w.RenderText("    arr[Main.Missing]\n\n- [x] done\n- [ ] [Sandbox.TestPage]\n")
	require.NoError(t, err)
	assert.True(t, cacheable)
	assert.Contains(t, string(out), `checked=""`)
	assert.Contains(t, string(out), `href="/view/Sandbox/TestPage"`)
	assert.Contains(t, string(out), "<code>arr[Main.Missing]")
	assert.NotContains(t, string(out), "wikicreatelink")
}
