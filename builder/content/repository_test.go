package content

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2013, 4, 7, 15, 30, 0, 0, time.UTC)

func newTestRepo(t *testing.T, permalink string, files map[string]string) (*Repository, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join("/site", name), []byte(body), 0644))
	}
	repo := NewRepository(fsys, "/site", permalink)
	repo.SetClock(func() time.Time { return fixedNow })
	return repo, fsys
}

func TestPosts_SortedNewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t, "/:year/:month/:day/:title", map[string]string{
		"_posts/2012-01-05-first.md":  "---\ntitle: First\n---\nbody one",
		"_posts/2012-02-10-second.md": "---\ntitle: Second\n---\nbody two",
		"_posts/2011-12-31-oldest":    "no front matter",
		"_posts/2012-01-01-moved.md":  "---\ncreated: 2012-03-01 09:00:00\n---\n",
		"_posts/notes.txt":            "not a post",
		"_posts/.DS_Store":            "",
	})

	posts, err := repo.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 4)

	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug())
	}
	assert.Equal(t, []string{"moved", "second", "first", "oldest"}, slugs)

	for i := 1; i < len(posts); i++ {
		assert.True(t, posts[i-1].Created().After(posts[i].Created()), "posts must be strictly descending")
	}

	assert.Equal(t, "/2012/02/10/second", posts[1].URL())
	assert.Equal(t, "Second", posts[1].Title())
	assert.Equal(t, "body two", posts[1].Body())
	assert.Equal(t, "oldest", posts[3].Title(), "title falls back to the slug")
}

func TestPosts_MissingDirectory(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", nil)

	posts, err := repo.Posts()
	require.NoError(t, err)
	assert.Empty(t, posts)

	drafts, err := repo.Drafts()
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestPosts_SlugAndUpdatedHeaders(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_posts/2012-01-05-file-name.md": "---\nslug: custom\nupdated: 2012-06-01T10:00:00Z\n---\n",
	})

	posts, err := repo.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "/custom", posts[0].URL())
	assert.Equal(t, time.Date(2012, 6, 1, 10, 0, 0, 0, time.UTC), posts[0].Updated().UTC())
	assert.False(t, posts[0].IsDraft())
}

func TestSlugHeaderMustBeValid(t *testing.T) {
	for _, slug := range []string{"../../../escaped", "a/b", "Upper"} {
		t.Run(slug, func(t *testing.T) {
			repo, _ := newTestRepo(t, "/:title", map[string]string{
				"_drafts/sneaky.md":         "---\nslug: " + slug + "\n---\n",
				"_posts/2012-01-05-post.md": "---\nslug: custom\n---\n",
			})
			_, err := repo.Drafts()
			assert.ErrorIs(t, err, ErrInvalidSlug)
		})
	}

	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_posts/2012-01-05-post.md": "---\nslug: ../up\n---\n",
	})
	_, err := repo.Posts()
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestPosts_MalformedFrontMatter(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_posts/2012-01-05-broken.md": "---\ntitle: Broken\nno closing delimiter",
	})

	_, err := repo.Posts()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestDrafts_URLUsesCurrentTime(t *testing.T) {
	repo, _ := newTestRepo(t, "/:year/:month/:title", map[string]string{
		"_drafts/idea.md": "---\ntitle: An Idea\n---\nwip",
	})

	drafts, err := repo.Drafts()
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "idea", d.Slug())
	assert.Equal(t, "/2013/04/idea", d.URL())
	assert.True(t, d.IsDraft())
	assert.False(t, d.Autopublish())
}

func TestDrafts_Autopublish(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_drafts/now.md":    "---\npublish: now\n---\n",
		"_drafts/past.md":   "---\npublish: 2013-04-01 08:00:00\n---\n",
		"_drafts/future.md": "---\npublish: 2030-01-01\n---\n",
		"_drafts/plain.md":  "---\ntitle: Plain\n---\n",
	})

	autopublish := func() map[string]bool {
		drafts, err := repo.Drafts()
		require.NoError(t, err)
		got := map[string]bool{}
		for _, d := range drafts {
			got[d.Slug()] = d.Autopublish()
		}
		return got
	}

	assert.Equal(t, map[string]bool{"now": true, "past": false, "future": false, "plain": false}, autopublish())

	repo.SetScheduledPublish(true)
	assert.Equal(t, map[string]bool{"now": true, "past": true, "future": false, "plain": false}, autopublish())
}

func TestPublish(t *testing.T) {
	repo, fsys := newTestRepo(t, "/:year/:title", map[string]string{
		"_drafts/launch.md": "---\ntitle: Launch\npublish: now\n---\nHello",
	})

	drafts, err := repo.Drafts()
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	post, err := repo.Publish(drafts[0])
	require.NoError(t, err)

	assert.Equal(t, "/site/_posts/2013-04-07-launch.md", post.Path())
	assert.Equal(t, "/2013/launch", post.URL())
	assert.Equal(t, "Launch", post.Title())
	assert.Equal(t, "Hello", post.Body())
	assert.True(t, post.Created().Equal(fixedNow))
	assert.True(t, post.Updated().Equal(fixedNow))
	assert.NotContains(t, post.Headers(), "publish")

	exists, err := afero.Exists(fsys, "/site/_drafts/launch.md")
	require.NoError(t, err)
	assert.False(t, exists, "draft file should be removed")

	posts, err := repo.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.Key(), posts[0].Key())
}

func TestPublish_TargetExists(t *testing.T) {
	repo, fsys := newTestRepo(t, "/:title", map[string]string{
		"_drafts/launch.md":           "---\npublish: now\n---\n",
		"_posts/2013-04-07-launch.md": "---\ntitle: Taken\n---\n",
	})

	drafts, err := repo.Drafts()
	require.NoError(t, err)

	_, err = repo.Publish(drafts[0])
	require.Error(t, err)

	exists, _ := afero.Exists(fsys, "/site/_drafts/launch.md")
	assert.True(t, exists, "draft must survive a failed publish")
}

func TestPublish_UnsavedDraft(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", nil)
	_, err := repo.Publish(repo.NewDraft("ghost", nil, ""))
	assert.Error(t, err)
}

func TestTouch(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_posts/2012-01-05-fresh.md": "---\ntitle: Fresh\nupdate: now\n---\nText",
	})

	posts, err := repo.Posts()
	require.NoError(t, err)
	require.True(t, posts[0].Autoupdate())

	require.NoError(t, repo.Touch(posts[0]))
	assert.True(t, posts[0].Updated().Equal(fixedNow))
	assert.False(t, posts[0].Autoupdate())

	reloaded, err := repo.Posts()
	require.NoError(t, err)
	assert.True(t, reloaded[0].Updated().Equal(fixedNow))
	assert.False(t, reloaded[0].Autoupdate())
	assert.Equal(t, "Text", reloaded[0].Body())
	assert.Equal(t, time.Date(2012, 1, 5, 0, 0, 0, 0, time.UTC), reloaded[0].Created())
}

func TestSaveDraft(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", nil)

	d, err := repo.SaveDraft(repo.NewDraft("new-idea", Headers{"title": "New Idea"}, "Body"))
	require.NoError(t, err)
	assert.Equal(t, "/site/_drafts/new-idea.md", d.Path())
	assert.Equal(t, "New Idea", d.Title())

	_, err = repo.SaveDraft(repo.NewDraft("new-idea", nil, ""))
	assert.Error(t, err, "saving over an existing draft must fail")

	_, err = repo.SaveDraft(repo.NewDraft("../escape", nil, ""))
	assert.Error(t, err)
}

func TestAll_PostsThenDrafts(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_posts/2012-01-05-a.md": "",
		"_drafts/b.md":           "",
	})

	all, err := repo.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].IsDraft())
	assert.True(t, all[1].IsDraft())
}

func TestKey(t *testing.T) {
	repo, _ := newTestRepo(t, "/:title", map[string]string{
		"_posts/2012-01-05-a.md": "",
	})

	first, err := repo.Posts()
	require.NoError(t, err)
	second, err := repo.Posts()
	require.NoError(t, err)
	assert.Equal(t, first[0].Key(), second[0].Key(), "same path, same identity")

	x := repo.NewDraft("x", nil, "")
	y := repo.NewDraft("x", nil, "")
	assert.NotEqual(t, x.Key(), y.Key(), "unsaved content has its own identity")
	assert.Equal(t, x.Key(), x.Key())
}

func TestToLiquid(t *testing.T) {
	p := NewPost("hello", fixedNow, Headers{"title": "Hello", "tags": []interface{}{"go"}}, "Body", "/:title")

	m, ok := p.ToLiquid().(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Hello", m["title"])
	assert.Equal(t, "/hello", m["url"])
	assert.Equal(t, "Body", m["content"])
	assert.Equal(t, fixedNow, m["created"])
	assert.Equal(t, []interface{}{"go"}, m["tags"])
	assert.Equal(t, false, m["draft"])
}
