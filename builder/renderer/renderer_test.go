package renderer

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Singh-26/quire/builder/config"
)

var now = time.Date(2013, 4, 7, 15, 30, 0, 0, time.UTC)

func newEngine(t *testing.T, production bool, algorithm string) (*Engine, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/site/css/site.css", []byte("body { color: red }"), 0644))
	e := New(Options{
		Fs:         fsys,
		Dir:        "/site",
		Production: production,
		Digests:    NewDigestCache(fsys, algorithm, false),
		Now:        func() time.Time { return now },
	})
	return e, fsys
}

func renderString(t *testing.T, e *Engine, src string, bindings map[string]interface{}) string {
	t.Helper()
	out, err := e.RenderString("test", src, bindings)
	require.NoError(t, err)
	return out
}

func TestFilters(t *testing.T) {
	e, _ := newEngine(t, false, config.DigestMD5)

	tests := []struct {
		name     string
		src      string
		bindings map[string]interface{}
		want     string
	}{
		{"strip", `[{{ "  padded  " | strip }}]`, nil, "[padded]"},
		{"encode_uri_component", `{{ q | encode_uri_component }}`, map[string]interface{}{"q": "a b&c/d"}, "a%20b%26c%2Fd"},
		{"encode_uri_component nil", `[{{ missing | encode_uri_component }}]`, nil, "[]"},
		{"encode_uri_component marks", `{{ q | encode_uri_component }}`, map[string]interface{}{"q": "it's (ok)!*"}, "it%27s%20%28ok%29%21%2A"},
		{"smarty", `{{ "it's" | smarty }}`, nil, "it&rsquo;s"},
		{"xmlschema", `{{ t | xmlschema }}`, map[string]interface{}{"t": now}, "2013-04-07T15:30:00Z"},
		{"date now", `{{ "now" | date: "%Y-%m-%d" }}`, nil, "2013-04-07"},
		{"date time", `{{ t | date: "%B %Y" }}`, map[string]interface{}{"t": time.Date(2012, 2, 10, 0, 0, 0, 0, time.UTC)}, "February 2012"},
		{"date string", `{{ "2012-01-05" | date: "%d/%m" }}`, nil, "05/01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderString(t, e, tt.src, tt.bindings))
		})
	}
}

func TestMarkdownFilter(t *testing.T) {
	e, _ := newEngine(t, false, config.DigestMD5)

	out := renderString(t, e, "{{ body | markdown }}", map[string]interface{}{"body": "Don't `panic`, use a lone ` mark"})
	assert.Contains(t, out, "Don&rsquo;t")
	assert.Contains(t, out, "<code>panic</code>")
}

func TestFileDigest_OutsideProduction(t *testing.T) {
	e, _ := newEngine(t, false, config.DigestMD5)

	assert.Equal(t, "[]", renderString(t, e, `[{% file_digest "css/site.css" prefix:/cdn/ %}]`, nil))
	assert.Equal(t, "[]", renderString(t, e, `[{% file_digest "does/not/exist.css" %}]`, nil))
}

func TestFileDigest_Production(t *testing.T) {
	e, fsys := newEngine(t, true, config.DigestMD5)

	sum := md5.Sum([]byte("body { color: red }"))
	want := "/cdn/" + hex.EncodeToString(sum[:])

	assert.Equal(t, want, renderString(t, e, `{% file_digest "css/site.css" prefix:/cdn/ %}`, nil))

	// The second render is served from the cache without touching the file.
	require.NoError(t, fsys.Remove("/site/css/site.css"))
	assert.Equal(t, want, renderString(t, e, `{% file_digest "/css/site.css" prefix:/cdn/ %}`, nil))

	hits, misses := e.digests.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestFileDigest_NoPrefix(t *testing.T) {
	e, _ := newEngine(t, true, config.DigestBLAKE3)

	out := renderString(t, e, `{% file_digest "css/site.css" %}`, nil)
	assert.Len(t, out, digestLen)
}

func TestFileDigest_MissingFileInProduction(t *testing.T) {
	e, _ := newEngine(t, true, config.DigestMD5)

	_, err := e.RenderString("test", `{% file_digest "missing.css" %}`, nil)
	assert.Error(t, err)
}

func TestFileDigest_SyntaxError(t *testing.T) {
	e, _ := newEngine(t, false, config.DigestMD5)

	for _, src := range []string{
		`{% file_digest css/site.css %}`,
		`{% file_digest %}`,
		`{% file_digest "a.css" suffix:x %}`,
		`{%- file_digest "a.css" prefix: -%}`,
	} {
		_, err := e.Parse("layout.html", src)
		var syntaxErr *TemplateSyntaxError
		if assert.True(t, errors.As(err, &syntaxErr), "expected a syntax error for %s", src) {
			assert.Equal(t, "file_digest", syntaxErr.Tag)
			assert.Equal(t, "layout.html", syntaxErr.Name)
		}
	}

	_, err := e.Parse("layout.html", `{% file_digest css/site.css %}`)
	var syntaxErr *TemplateSyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "css/site.css", syntaxErr.Markup)
	assert.Contains(t, err.Error(), "css/site.css")
}

func TestParse_EngineSyntaxError(t *testing.T) {
	e, _ := newEngine(t, false, config.DigestMD5)

	_, err := e.Parse("broken.html", "{% if true %}never closed")
	var syntaxErr *TemplateSyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "broken.html", syntaxErr.Name)
	assert.Error(t, syntaxErr.Unwrap())
}

func TestRenderFile_ReloadsChangedTemplates(t *testing.T) {
	e, fsys := newEngine(t, false, config.DigestMD5)
	path := "/site/_layouts/default.html"

	require.NoError(t, afero.WriteFile(fsys, path, []byte("v1 {{ content }}"), 0644))
	require.NoError(t, fsys.Chtimes(path, now, now))

	out, err := e.RenderFile(path, map[string]interface{}{"content": "x"})
	require.NoError(t, err)
	assert.Equal(t, "v1 x", out)

	require.NoError(t, afero.WriteFile(fsys, path, []byte("version 2 {{ content }}"), 0644))
	later := now.Add(time.Minute)
	require.NoError(t, fsys.Chtimes(path, later, later))

	out, err = e.RenderFile(path, map[string]interface{}{"content": "x"})
	require.NoError(t, err)
	assert.Equal(t, "version 2 x", out)
	assert.Equal(t, 1, e.cache.len())
}

func TestRenderFile_Missing(t *testing.T) {
	e, _ := newEngine(t, false, config.DigestMD5)

	_, err := e.RenderFile("/site/_templates/post.html", nil)
	assert.Error(t, err)
}

func TestDigestCache_CheckMtime(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := "/site/app.js"
	require.NoError(t, afero.WriteFile(fsys, path, []byte("one"), 0644))
	require.NoError(t, fsys.Chtimes(path, now, now))

	c := NewDigestCache(fsys, config.DigestMD5, true)
	first, err := c.Digest(path)
	require.NoError(t, err)

	again, err := c.Digest(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, afero.WriteFile(fsys, path, []byte("two"), 0644))
	later := now.Add(time.Second)
	require.NoError(t, fsys.Chtimes(path, later, later))

	changed, err := c.Digest(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
	assert.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
}

func TestDigestCache_UnknownAlgorithm(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/f", []byte("x"), 0644))

	sum, err := NewDigestCache(fsys, "sha1", false).Digest("/f")
	require.NoError(t, err)
	want := md5.Sum([]byte("x"))
	assert.Equal(t, hex.EncodeToString(want[:]), sum)
}
