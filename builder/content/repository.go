package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	PostsDir  = "_posts"
	DraftsDir = "_drafts"
)

// postName matches _posts file names: YYYY-MM-DD-slug[.ext]
var postName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Repository reads posts and drafts from a source directory. Nothing is
// cached: every call reflects the filesystem at that moment.
type Repository struct {
	fs        afero.Fs
	dir       string
	permalink string
	scheduled bool
	now       func() time.Time
}

func NewRepository(fsys afero.Fs, dir, permalink string) *Repository {
	return &Repository{fs: fsys, dir: dir, permalink: permalink, now: time.Now}
}

// SetClock replaces the time source used for draft URLs and timestamps.
func (r *Repository) SetClock(now func() time.Time) { r.now = now }

// SetScheduledPublish makes drafts with a past publish timestamp eligible for
// autopublish, in addition to "publish: now".
func (r *Repository) SetScheduledPublish(on bool) { r.scheduled = on }

// Now returns the repository's current time.
func (r *Repository) Now() time.Time { return r.now() }

// Posts returns every post sorted by creation time, newest first. Posts
// created at the same instant are ordered by path for a stable result.
func (r *Repository) Posts() ([]*Post, error) {
	paths, err := r.list(PostsDir)
	if err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(paths))
	for _, path := range paths {
		p, err := r.loadPost(path)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].created.Equal(posts[j].created) {
			return posts[i].created.After(posts[j].created)
		}
		return posts[i].path > posts[j].path
	})
	return posts, nil
}

// Drafts returns every draft ordered by path.
func (r *Repository) Drafts() ([]*Draft, error) {
	paths, err := r.list(DraftsDir)
	if err != nil {
		return nil, err
	}

	now := r.now()
	drafts := make([]*Draft, 0, len(paths))
	for _, path := range paths {
		d, err := r.loadDraft(path, now)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// All returns posts followed by drafts.
func (r *Repository) All() ([]File, error) {
	posts, err := r.Posts()
	if err != nil {
		return nil, err
	}
	drafts, err := r.Drafts()
	if err != nil {
		return nil, err
	}

	all := make([]File, 0, len(posts)+len(drafts))
	for _, p := range posts {
		all = append(all, p)
	}
	for _, d := range drafts {
		all = append(all, d)
	}
	return all, nil
}

// NewDraft builds an unsaved draft with this repository's permalink and clock.
func (r *Repository) NewDraft(slug string, headers Headers, body string) *Draft {
	return newDraft("", slug, headers, body, r.permalink, r.now(), r.scheduled)
}

// SaveDraft writes d to _drafts/<slug>.md and returns the stored draft. An
// existing draft with the same slug is an error.
func (r *Repository) SaveDraft(d *Draft) (*Draft, error) {
	if !ValidSlug(d.slug) {
		return nil, fmt.Errorf("invalid draft slug %q", d.slug)
	}
	target := filepath.Join(r.dir, DraftsDir, d.slug+".md")
	if err := r.writeNew(target, d.headers, d.body); err != nil {
		return nil, err
	}
	return r.loadDraft(target, r.now())
}

// Publish turns a draft into a post dated now. The draft file is removed, the
// post gets created/updated headers and loses its publish directive.
func (r *Repository) Publish(d *Draft) (*Post, error) {
	if d.path == "" {
		return nil, fmt.Errorf("draft %q has no file to publish", d.slug)
	}

	now := r.now()
	headers := d.headers.clone()
	delete(headers, "publish")
	headers["created"] = now.Format(time.RFC3339)
	headers["updated"] = now.Format(time.RFC3339)

	name := now.Format("2006-01-02") + "-" + d.slug + filepath.Ext(d.path)
	target := filepath.Join(r.dir, PostsDir, name)
	if err := r.writeNew(target, headers, d.body); err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", d.path, err)
	}
	if err := r.fs.Remove(d.path); err != nil {
		return nil, fmt.Errorf("failed to remove published draft %s: %w", d.path, err)
	}
	return r.loadPost(target)
}

// Touch sets a post's updated header to now and drops its update directive.
func (r *Repository) Touch(p *Post) error {
	if p.path == "" {
		return fmt.Errorf("post %q has no file to update", p.slug)
	}

	now := r.now()
	headers := p.headers.clone()
	delete(headers, "update")
	headers["updated"] = now.Format(time.RFC3339)

	data, err := RenderFrontMatter(headers, p.body)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.path, err)
	}
	if err := afero.WriteFile(r.fs, p.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.path, err)
	}

	p.headers = headers
	p.updated = now
	return nil
}

func (r *Repository) writeNew(target string, headers Headers, body string) error {
	if _, err := r.fs.Stat(target); err == nil {
		return fmt.Errorf("%s: %w", target, fs.ErrExist)
	}
	data, err := RenderFrontMatter(headers, body)
	if err != nil {
		return err
	}
	if err := r.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	return afero.WriteFile(r.fs, target, data, 0644)
}

// list returns the regular, non-hidden files directly inside sub.
func (r *Repository) list(sub string) ([]string, error) {
	dir := filepath.Join(r.dir, sub)
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *Repository) read(path string) (Headers, string, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	headers, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return headers, string(body), nil
}

// loadPost returns nil for files in _posts that do not follow the naming scheme.
func (r *Repository) loadPost(path string) (*Post, error) {
	m := postName.FindStringSubmatch(stripExt(filepath.Base(path)))
	if m == nil {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return nil, nil
	}

	headers, body, err := r.read(path)
	if err != nil {
		return nil, err
	}

	slug, err := headerSlug(path, headers, m[2])
	if err != nil {
		return nil, err
	}

	p := &Post{entry: newEntry(path, slug, headers, body), created: date}
	if t, ok := headers.Time("created"); ok {
		p.created = t
	}
	p.updated = p.created
	if t, ok := headers.Time("updated"); ok {
		p.updated = t
	}
	p.url = FormatURL(r.permalink, p.created, slug)
	return p, nil
}

func (r *Repository) loadDraft(path string, now time.Time) (*Draft, error) {
	headers, body, err := r.read(path)
	if err != nil {
		return nil, err
	}

	slug, err := headerSlug(path, headers, stripExt(filepath.Base(path)))
	if err != nil {
		return nil, err
	}

	return newDraft(path, slug, headers, body, r.permalink, now, r.scheduled), nil
}

// headerSlug returns the slug header, or fallback when there is none. A slug
// header ends up in output paths, so it must be a valid slug.
func headerSlug(path string, h Headers, fallback string) (string, error) {
	s := h.String("slug")
	if s == "" {
		return fallback, nil
	}
	if !ValidSlug(s) {
		return "", fmt.Errorf("%s: %w: %q", path, ErrInvalidSlug, s)
	}
	return s, nil
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
