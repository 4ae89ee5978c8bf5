// Wraps the Liquid engine with the site's filters, tags and template cache
package renderer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/osteele/liquid"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/parser"
)

type Options struct {
	Fs         afero.Fs
	Dir        string // site source directory; file_digest paths resolve against it
	Production bool
	Digests    *DigestCache
	Markdown   *parser.Markdown
	Logger     *slog.Logger
	Now        func() time.Time
}

// Engine renders Liquid templates. Parsed template files are cached by path
// and re-read when their modification time changes.
type Engine struct {
	liquid     *liquid.Engine
	fs         afero.Fs
	dir        string
	production bool
	digests    *DigestCache
	markdown   *parser.Markdown
	logger     *slog.Logger
	now        func() time.Time
	cache      *templateCache
}

func New(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Digests == nil {
		opts.Digests = NewDigestCache(opts.Fs, "", false)
	}
	if opts.Markdown == nil {
		opts.Markdown = parser.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	e := &Engine{
		liquid:     liquid.NewEngine(),
		fs:         opts.Fs,
		dir:        opts.Dir,
		production: opts.Production,
		digests:    opts.Digests,
		markdown:   opts.Markdown,
		logger:     opts.Logger,
		now:        opts.Now,
		cache:      newTemplateCache(opts.Fs),
	}
	e.registerFilters()
	e.liquid.RegisterTag(fileDigestTag, e.renderFileDigest)
	return e
}

// Production reports whether file_digest reads the filesystem.
func (e *Engine) Production() bool { return e.production }

// Parse compiles src. name identifies the template in errors.
func (e *Engine) Parse(name, src string) (*liquid.Template, error) {
	if err := validateTags(name, src); err != nil {
		return nil, err
	}
	tpl, err := e.liquid.ParseString(src)
	if err != nil {
		return nil, &TemplateSyntaxError{Name: name, Err: err}
	}
	return tpl, nil
}

// Render executes a parsed template.
func (e *Engine) Render(name string, tpl *liquid.Template, bindings map[string]interface{}) (string, error) {
	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return out, nil
}

// RenderString parses and renders src in one step.
func (e *Engine) RenderString(name, src string, bindings map[string]interface{}) (string, error) {
	tpl, err := e.Parse(name, src)
	if err != nil {
		return "", err
	}
	return e.Render(name, tpl, bindings)
}

// RenderFile renders the template stored at path.
func (e *Engine) RenderFile(path string, bindings map[string]interface{}) (string, error) {
	tpl, err := e.cache.get(path, e.Parse)
	if err != nil {
		return "", err
	}
	return e.Render(filepath.Base(path), tpl, bindings)
}
