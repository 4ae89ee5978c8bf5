package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/osteele/liquid"
	"github.com/spf13/afero"
)

type cachedTemplate struct {
	tpl   *liquid.Template
	mtime time.Time
	size  int64
}

type templateCache struct {
	fs        afero.Fs
	templates map[string]cachedTemplate
	mu        sync.RWMutex
}

func newTemplateCache(fsys afero.Fs) *templateCache {
	return &templateCache{
		fs:        fsys,
		templates: make(map[string]cachedTemplate),
	}
}

// get returns the parsed template at path, parsing it again when the file
// changed since it was cached.
func (tc *templateCache) get(path string, parse func(name, src string) (*liquid.Template, error)) (*liquid.Template, error) {
	info, err := tc.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", path, err)
	}

	tc.mu.RLock()
	cached, ok := tc.templates[path]
	tc.mu.RUnlock()
	if ok && cached.mtime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.tpl, nil
	}

	data, err := afero.ReadFile(tc.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", path, err)
	}
	tpl, err := parse(path, string(data))
	if err != nil {
		return nil, err
	}

	tc.mu.Lock()
	tc.templates[path] = cachedTemplate{tpl: tpl, mtime: info.ModTime(), size: info.Size()}
	tc.mu.Unlock()
	return tpl, nil
}

func (tc *templateCache) len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.templates)
}
