package run

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/content"
	"github.com/Kush-Singh-26/quire/builder/utils"
)

// renderFiles copies static files and renders .html and .xml files through
// their layout. The output mirrors the source tree.
func (b *Builder) renderFiles(st *runState) error {
	for _, rel := range st.files {
		src := b.site.Path(filepath.FromSlash(rel))
		dst := filepath.Join(b.stagingDir(), filepath.FromSlash(rel))

		if !renderable(rel) {
			if err := utils.CopyFileVFS(b.site.Fs, src, dst); err != nil {
				return err
			}
			st.metrics.FilesCopied++
			continue
		}

		if err := b.renderFile(st, rel, src, dst); err != nil {
			return err
		}
		st.metrics.FilesRendered++
	}
	b.logger.Debug("Rendered files", "rendered", st.metrics.FilesRendered, "copied", st.metrics.FilesCopied)
	return nil
}

func (b *Builder) renderFile(st *runState, rel, src, dst string) error {
	data, err := afero.ReadFile(b.site.Fs, src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rel, err)
	}
	headers, body, err := content.ParseFrontMatter(data)
	if err != nil {
		return fmt.Errorf("failed to parse headers of %s: %w", rel, err)
	}

	page := make(map[string]interface{}, len(headers)+1)
	for k, v := range headers {
		page[k] = v
	}
	page["url"] = "/" + rel

	bindings := st.view.With(map[string]interface{}{"page": page})
	out, err := b.engine.RenderString(rel, string(body), bindings)
	if err != nil {
		return err
	}

	out, err = b.wrap(resolveLayout(headers.String("layout")), bindings, out)
	if err != nil {
		return fmt.Errorf("failed to apply layout to %s: %w", rel, err)
	}
	return b.write(st, dst, out)
}
