package run

import (
	"fmt"

	"github.com/Kush-Singh-26/quire/builder/site"
)

// renderArchives writes one page per month that has posts, when archives are
// enabled.
func (b *Builder) renderArchives(st *runState) error {
	if !b.cfg.Archive.Enabled || st.view.Archive == nil {
		return nil
	}

	tpl := b.template(ArchiveTemplate)
	for _, month := range st.view.Archive.Months() {
		view := site.Stringify(month.ToLiquid()).(map[string]interface{})
		bindings := st.view.With(map[string]interface{}{
			"month":       month.Date,
			"posts":       view["posts"],
			"archive_url": month.ArchiveURL,
			"page":        map[string]interface{}{"url": month.ArchiveURL},
		})

		body, err := b.engine.RenderFile(tpl, bindings)
		if err != nil {
			return fmt.Errorf("failed to render archive %s: %w", month.ArchiveURL, err)
		}
		out, err := b.wrap(DefaultLayout, bindings, body)
		if err != nil {
			return fmt.Errorf("failed to apply layout to archive %s: %w", month.ArchiveURL, err)
		}
		if err := b.write(st, b.outputPath(month.ArchiveURL), out); err != nil {
			return err
		}
		st.metrics.ArchivesRendered++
	}
	return nil
}
