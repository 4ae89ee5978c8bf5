package site

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kush-Singh-26/quire/builder/config"
	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/content"
)

var now = time.Date(2013, 4, 7, 12, 0, 0, 0, time.UTC)

func newSite(t *testing.T, files map[string]string) *Site {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fsys, "/site/"+name, []byte(body), 0644))
	}
	s, err := New(fsys, "/site")
	require.NoError(t, err)
	s.SetClock(func() time.Time { return now })
	return s
}

func TestConfig_CachedUntilReload(t *testing.T) {
	s := newSite(t, map[string]string{config.FileName: "permalink: /blog/:title\n"})

	first, err := s.Config()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(s.Fs, "/site/"+config.FileName, []byte("permalink: /changed\n"), 0644))
	second, err := s.Config()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "/blog/:title", second.Permalink)

	reloaded, err := s.Reload()
	require.NoError(t, err)
	assert.Equal(t, "/changed", reloaded.Permalink)

	current, err := s.Config()
	require.NoError(t, err)
	assert.Same(t, reloaded, current)
}

func TestReload_KeepsSnapshotOnError(t *testing.T) {
	s := newSite(t, map[string]string{config.FileName: "permalink: /blog/:title\n"})
	first, err := s.Config()
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(s.Fs, "/site/"+config.FileName, []byte("permalink: [\n"), 0644))
	_, err = s.Reload()
	require.Error(t, err)

	current, err := s.Config()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestConflicts(t *testing.T) {
	s := newSite(t, map[string]string{
		"_posts/2012-01-05-dup.md": "",
		"_drafts/dup.md":           "",
		"_drafts/other.md":         "",
	})

	found, err := s.Conflicts()
	require.NoError(t, err)
	require.Contains(t, found, "/dup")
	assert.Len(t, found["/dup"], 2)

	group, err := s.ConflictsFor(content.NewDraft("other", nil, "", "/:title", now))
	require.NoError(t, err)
	assert.Len(t, group, 2)
}

func TestNewContext(t *testing.T) {
	s := newSite(t, map[string]string{
		config.FileName:            "archive:\n  enabled: true\n",
		"_posts/2012-01-05-a.md":   "---\nupdated: 2012-03-01T00:00:00Z\n---\n",
		"_posts/2012-02-10-b.md":   "",
		"_posts/2011-07-01-old.md": "",
	})

	ctx, err := s.NewContext()
	require.NoError(t, err)

	require.Len(t, ctx.Posts, 3)
	assert.Equal(t, "b", ctx.Posts[0].Slug())
	assert.Equal(t, time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC), ctx.LatestUpdate.UTC())
	assert.Equal(t, "/site", ctx.Directory)

	b := ctx.Bindings()
	siteView := b["site"].(map[string]interface{})
	assert.Len(t, siteView["posts"], 3)
	assert.Equal(t, "/site", siteView["directory"])
	assert.Equal(t, ctx.LatestUpdate, siteView["latest_update_time"])

	archiveView := siteView["archive"].(map[string]interface{})
	years := archiveView["years"].([]interface{})
	require.Len(t, years, 2)
	months := years[0].(map[string]interface{})["months"].([]interface{})
	assert.Equal(t, "/archive/2012/02", months[0].(map[string]interface{})["archive_url"])
}

func TestNewContext_NoPosts(t *testing.T) {
	ctx, err := newSite(t, nil).NewContext()
	require.NoError(t, err)
	assert.Empty(t, ctx.Posts)
	assert.Equal(t, now, ctx.LatestUpdate)
}

func TestWith(t *testing.T) {
	ctx := NewContext(nil, nil, "/site", now)

	b := ctx.With(map[string]interface{}{"page": map[string]interface{}{"title": "x"}})
	assert.Contains(t, b, "site")
	assert.Contains(t, b, "page")
	assert.NotContains(t, ctx.Bindings(), "page", "With must not leak into later renders")
}

func TestStringify(t *testing.T) {
	type key int
	in := map[interface{}]interface{}{
		"a": 1,
		2:   []interface{}{map[key]string{3: "x"}, "plain"},
		"t": now,
	}

	out := Stringify(in).(map[string]interface{})
	assert.Equal(t, 1, out["a"])
	assert.Equal(t, now, out["t"])

	list := out["2"].([]interface{})
	assert.Equal(t, map[string]interface{}{"3": "x"}, list[0])
	assert.Equal(t, "plain", list[1])

	assert.Nil(t, Stringify(nil))
	assert.Equal(t, []byte("raw"), Stringify([]byte("raw")))
}

func TestCreateDraft(t *testing.T) {
	s := newSite(t, map[string]string{
		"_posts/2012-01-05-taken.md": "---\ntitle: Taken\n---\n",
	})

	d, err := s.CreateDraft("  Crème Brûlée  ", "", "Sugar.")
	require.NoError(t, err)
	assert.Equal(t, "creme-brulee", d.Slug())
	assert.Equal(t, "Crème Brûlée", d.Title())
	ok, _ := afero.Exists(s.Fs, "/site/_drafts/creme-brulee.md")
	assert.True(t, ok)

	_, err = s.CreateDraft("Crème Brûlée", "", "")
	var conflictErr *conflicts.ConflictError
	require.True(t, errors.As(err, &conflictErr), "got %v", err)
	assert.Equal(t, []string{"/creme-brulee"}, conflictErr.URLs())

	_, err = s.CreateDraft("Anything", "taken", "")
	require.True(t, errors.As(err, &conflictErr), "got %v", err)
	assert.Len(t, conflictErr.Conflicts["/taken"], 2)

	_, err = s.CreateDraft(" ", "", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = s.CreateDraft("Bad", "no/slash", "")
	assert.ErrorIs(t, err, ErrInvalidSlug)
}
