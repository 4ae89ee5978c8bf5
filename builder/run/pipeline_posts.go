package run

import (
	"fmt"
)

// renderPosts writes every post of the snapshot at its URL. The snapshot is
// newest first, so the next (later) post sits at i-1 and the previous one
// at i+1.
func (b *Builder) renderPosts(st *runState) error {
	if len(st.posts) == 0 {
		return nil
	}

	views := make([]interface{}, len(st.posts))
	for i, p := range st.posts {
		views[i] = p.ToLiquid()
	}

	tpl := b.template(PostTemplate)
	for i, p := range st.posts {
		bindings := st.view.With(map[string]interface{}{
			"page":          views[i],
			"post":          views[i],
			"prev_post":     liquidOrNil(i+1, views),
			"next_post":     liquidOrNil(i-1, views),
			"draft_preview": false,
		})

		body, err := b.engine.RenderFile(tpl, bindings)
		if err != nil {
			return fmt.Errorf("failed to render post %s: %w", p.Slug(), err)
		}
		out, err := b.wrap(resolveLayout(p.Layout()), bindings, body)
		if err != nil {
			return fmt.Errorf("failed to apply layout to post %s: %w", p.Slug(), err)
		}
		if err := b.write(st, b.outputPath(p.URL()), out); err != nil {
			return err
		}
		st.metrics.PostsRendered++
	}
	return nil
}
