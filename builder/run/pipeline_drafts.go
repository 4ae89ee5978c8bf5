package run

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Kush-Singh-26/quire/builder/preview"
)

// renderDrafts writes a preview page for every draft. Preview ids come from
// the live tree, so a draft keeps its preview URL across generations.
func (b *Builder) renderDrafts(st *runState) error {
	if len(st.drafts) == 0 {
		return nil
	}

	alloc := preview.NewAllocator(b.site.Fs, b.liveDir())
	tpl := b.template(PostTemplate)
	for _, d := range st.drafts {
		rel, err := alloc.Allocate(d.Slug())
		if err != nil {
			return err
		}

		view := d.ToLiquid()
		bindings := st.view.With(map[string]interface{}{
			"page":          view,
			"post":          view,
			"prev_post":     nil,
			"next_post":     nil,
			"draft_preview": true,
			"preview_url":   "/" + strings.TrimSuffix(rel, outputExtension),
		})

		body, err := b.engine.RenderFile(tpl, bindings)
		if err != nil {
			return fmt.Errorf("failed to render draft %s: %w", d.Slug(), err)
		}
		out, err := b.wrap(DefaultLayout, bindings, body)
		if err != nil {
			return fmt.Errorf("failed to apply layout to draft %s: %w", d.Slug(), err)
		}
		if err := b.write(st, filepath.Join(b.stagingDir(), filepath.FromSlash(rel)), out); err != nil {
			return err
		}
		st.metrics.DraftsRendered++
	}
	return nil
}
