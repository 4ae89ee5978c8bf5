package run

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Kush-Singh-26/quire/builder/utils"
)

// renderable reports whether a source file goes through the template engine
// instead of being copied.
func renderable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".xml":
		return true
	}
	return false
}

// resolveLayout maps a layout header to a layout name. An empty header means
// the default layout.
func resolveLayout(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLayout
	}
	return header
}

// wrap renders content inside the named layout. The "none" layout returns
// content unchanged.
func (b *Builder) wrap(layout string, bindings map[string]interface{}, body string) (string, error) {
	if layout == NoLayout {
		return body, nil
	}
	bindings["content"] = body
	return b.engine.RenderFile(b.site.Path(LayoutsDir, layout+layoutExtension), bindings)
}

func (b *Builder) template(name string) string {
	return b.site.Path(TemplatesDir, name)
}

// outputPath maps a site URL to its file under the staging tree.
func (b *Builder) outputPath(url string) string {
	rel := strings.TrimSuffix(path.Clean("/"+url), "/")
	if rel == "" {
		rel = "/index"
	}
	return filepath.Join(b.stagingDir(), filepath.FromSlash(rel)+outputExtension)
}

// write stores a rendered page. Destinations outside the staging tree are
// refused.
func (b *Builder) write(st *runState, dst, data string) error {
	if _, err := utils.SafeRel(b.stagingDir(), dst); err != nil {
		return err
	}
	if err := utils.WriteFileVFS(b.site.Fs, dst, []byte(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	st.addRendered(dst)
	st.metrics.BytesWritten += int64(len(data))
	return nil
}

// liquidOrNil keeps a missing neighbour an untyped nil so templates see it
// as blank.
func liquidOrNil(i int, posts []interface{}) interface{} {
	if i < 0 || i >= len(posts) {
		return nil
	}
	return posts[i]
}
