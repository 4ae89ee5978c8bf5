// Package site ties a source directory to its configuration and content.
package site

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/archive"
	"github.com/Kush-Singh-26/quire/builder/config"
	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/content"
)

// Output locations, relative to the source directory.
const (
	LiveDir    = "_site"
	StagingDir = "_tmp/_site"
	TmpDir     = "_tmp"
	BackupsDir = "_backups"
)

var (
	ErrEmptyTitle  = errors.New("title is required")
	ErrInvalidSlug = content.ErrInvalidSlug
)

// Site is a source directory plus its configuration, loaded on first use and
// again on Reload. Posts, drafts and archives are read from disk on every
// call.
type Site struct {
	Fs  afero.Fs
	Dir string

	mu    sync.Mutex
	cfg   *config.Config
	clock func() time.Time
}

// New returns a site rooted at dir, which is made absolute.
func New(fsys afero.Fs, dir string) (*Site, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return &Site{Fs: fsys, Dir: abs, clock: time.Now}, nil
}

// SetClock replaces the time source for draft URLs and publish decisions.
func (s *Site) SetClock(now func() time.Time) { s.clock = now }

// Now returns the site's current time.
func (s *Site) Now() time.Time { return s.clock() }

// Config loads _config.yml on first use and returns the current snapshot
// afterwards. A failed load is retried on the next call.
func (s *Site) Config() (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg != nil {
		return s.cfg, nil
	}
	return s.load()
}

// Reload reads _config.yml again. On failure the previous snapshot stays in
// place.
func (s *Site) Reload() (*config.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Site) load() (*config.Config, error) {
	cfg, err := config.Load(s.Fs, s.Dir)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return cfg, nil
}

// Path joins elem onto the source directory.
func (s *Site) Path(elem ...string) string {
	return filepath.Join(append([]string{s.Dir}, elem...)...)
}

func (s *Site) Repository() (*content.Repository, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	repo := content.NewRepository(s.Fs, s.Dir, cfg.Permalink)
	repo.SetClock(s.clock)
	repo.SetScheduledPublish(cfg.Publish.Scheduled)
	return repo, nil
}

func (s *Site) Posts() ([]*content.Post, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.Posts()
}

func (s *Site) Drafts() ([]*content.Draft, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	return repo.Drafts()
}

// Archive indexes posts with the configured archive URL format.
func (s *Site) Archive(posts []*content.Post) (*archive.Archive, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	return archive.Build(posts, archive.Formatter(cfg.Archive.URLFormat)), nil
}

// Conflicts checks every post and draft for shared URLs.
func (s *Site) Conflicts() (map[string][]content.File, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	all, err := repo.All()
	if err != nil {
		return nil, err
	}
	return conflicts.Find(all), nil
}

// ConflictsFor checks a single candidate against every post and draft.
func (s *Site) ConflictsFor(candidate content.File) ([]content.File, error) {
	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	all, err := repo.All()
	if err != nil {
		return nil, err
	}
	return conflicts.FindFor(candidate, all), nil
}

// NewContext snapshots the current posts into a run-scoped context.
func (s *Site) NewContext() (*Context, error) {
	posts, err := s.Posts()
	if err != nil {
		return nil, err
	}
	return s.ContextFor(posts)
}

// ContextFor builds a context around an already frozen post list.
func (s *Site) ContextFor(posts []*content.Post) (*Context, error) {
	a, err := s.Archive(posts)
	if err != nil {
		return nil, err
	}
	return NewContext(posts, a, s.Dir, s.Now()), nil
}

// CreateDraft saves a new draft titled title. An empty slug is derived from
// the title. The draft is refused with a *conflicts.ConflictError when a post
// or another draft already resolves to its URL, and with an error wrapping
// fs.ErrExist when a draft file of the same slug exists.
func (s *Site) CreateDraft(title, slug, body string) (*content.Draft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if slug == "" {
		slug = content.Slugify(title)
	}
	if !content.ValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	repo, err := s.Repository()
	if err != nil {
		return nil, err
	}
	draft := repo.NewDraft(slug, content.Headers{"title": title}, body)
	clash, err := s.ConflictsFor(draft)
	if err != nil {
		return nil, err
	}
	if len(clash) > 0 {
		return nil, &conflicts.ConflictError{Conflicts: map[string][]content.File{draft.URL(): clash}}
	}
	return repo.SaveDraft(draft)
}
