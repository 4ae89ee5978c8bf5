// Package run implements the generation pipeline: it turns a source tree into
// a staged output tree and promotes it over the live one in a single rename.
package run

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/config"
	"github.com/Kush-Singh-26/quire/builder/metrics"
	"github.com/Kush-Singh-26/quire/builder/parser"
	"github.com/Kush-Singh-26/quire/builder/renderer"
	"github.com/Kush-Singh-26/quire/builder/site"
	"github.com/Kush-Singh-26/quire/builder/utils"
)

// Source tree locations consumed by the pipeline.
const (
	LayoutsDir       = "_layouts"
	TemplatesDir     = "_templates"
	DefaultLayout    = "default"
	NoLayout         = "none"
	PostTemplate     = "post.html"
	ArchiveTemplate  = "archive_page.html"
	LockFile         = ".quire.lock"
	layoutExtension  = ".html"
	outputExtension  = ".html"
	backupNamePrefix = "_site."
	backupTimeLayout = "2006-01-02-15-04-05"
)

type Options struct {
	Fs         afero.Fs
	Dir        string
	Production bool
	Logger     *slog.Logger
	Recorder   metrics.Recorder
	// Digests is shared by every run of the process. A nil value creates one
	// from the site configuration.
	Digests *renderer.DigestCache
	Now     func() time.Time
}

// Builder runs generations for one source directory. Every generation reads
// _config.yml again; the template engine and digest cache live as long as the
// builder. Generate is not safe for concurrent use; a generation from another
// process is refused through LockFile.
type Builder struct {
	site     *site.Site
	cfg      *config.Config
	engine   *renderer.Engine
	digests  *renderer.DigestCache
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// Result summarizes a successful generation.
type Result struct {
	Posts    int
	Drafts   int
	Files    int
	Archives int
	// Fingerprint is the BLAKE3 hash of the promoted tree.
	Fingerprint string
	// Changed reports whether the promoted tree differs from the previous one.
	Changed bool
	Metrics *metrics.BuildMetrics
}

// NewBuilder loads the site configuration and prepares the template engine.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s, err := site.New(opts.Fs, opts.Dir)
	if err != nil {
		return nil, err
	}
	s.SetClock(opts.Now)

	cfg, err := s.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.Digests == nil {
		opts.Digests = renderer.NewDigestCache(opts.Fs, cfg.Digest.Algorithm, cfg.Digest.CheckMtime)
	}
	if cfg.Output.Minify {
		utils.InitMinifier()
	}

	engine := renderer.New(renderer.Options{
		Fs:         opts.Fs,
		Dir:        s.Dir,
		Production: opts.Production,
		Digests:    opts.Digests,
		Markdown:   parser.New(),
		Logger:     opts.Logger,
		Now:        opts.Now,
	})

	return &Builder{
		site:     s,
		cfg:      cfg,
		engine:   engine,
		digests:  opts.Digests,
		logger:   opts.Logger.With("dir", s.Dir),
		recorder: opts.Recorder,
		now:      opts.Now,
	}, nil
}

// Site returns the site the builder generates.
func (b *Builder) Site() *site.Site { return b.site }

// Config returns the configuration of the latest generation, or the one
// loaded by NewBuilder before the first run.
func (b *Builder) Config() *config.Config { return b.cfg }

// reloadConfig takes a fresh configuration snapshot for one generation.
func (b *Builder) reloadConfig() error {
	cfg, err := b.site.Reload()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Output.Minify {
		utils.InitMinifier()
	}
	b.cfg = cfg
	return nil
}

// Engine returns the template engine used for every render.
func (b *Builder) Engine() *renderer.Engine { return b.engine }

func (b *Builder) liveDir() string    { return b.site.Path(site.LiveDir) }
func (b *Builder) stagingDir() string { return b.site.Path(site.StagingDir) }
func (b *Builder) tmpDir() string     { return b.site.Path(site.TmpDir) }
func (b *Builder) backupsDir() string { return b.site.Path(site.BackupsDir) }
