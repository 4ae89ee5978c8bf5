package run

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/utils"
)

// resetStaging removes whatever a previous or interrupted run left behind.
func (b *Builder) resetStaging(st *runState) error {
	fsys := b.site.Fs
	if err := fsys.RemoveAll(b.stagingDir()); err != nil {
		return fmt.Errorf("failed to clear staging: %w", err)
	}
	if err := fsys.MkdirAll(b.stagingDir(), 0755); err != nil {
		return fmt.Errorf("failed to create staging: %w", err)
	}
	return nil
}

// enumerate lists site files. Anything whose first path segment starts with
// an underscore (config, layouts, templates, posts, drafts, output) or a dot
// (.git, .env) is not site content.
func (b *Builder) enumerate(st *runState) error {
	files, err := utils.ListFiles(b.site.Fs, b.site.Dir, func(rel string, _ fs.FileInfo) bool {
		return !strings.Contains(rel, "/") && (strings.HasPrefix(rel, "_") || strings.HasPrefix(rel, "."))
	})
	if err != nil {
		return fmt.Errorf("failed to list source files: %w", err)
	}
	st.files = files
	b.logger.Debug("Enumerated source files", "count", len(files))
	return nil
}

func (b *Builder) checkConflicts(st *runState) error {
	all, err := st.repo.All()
	if err != nil {
		return err
	}
	if found := conflicts.Find(all); len(found) > 0 {
		return &conflicts.ConflictError{Conflicts: found}
	}
	return nil
}

// autopublish turns drafts marked for publication into posts. It must run
// before posts are read for the rest of the generation.
func (b *Builder) autopublish(st *runState) error {
	drafts, err := st.repo.Drafts()
	if err != nil {
		return err
	}
	for _, d := range drafts {
		if !d.Autopublish() {
			continue
		}
		post, err := st.repo.Publish(d)
		if err != nil {
			return err
		}
		st.metrics.Autopublished++
		b.logger.Info("Published draft", "slug", d.Slug(), "path", post.Path())
	}
	return nil
}

func (b *Builder) autoupdate(st *runState) error {
	posts, err := st.repo.Posts()
	if err != nil {
		return err
	}
	for _, p := range posts {
		if !p.Autoupdate() {
			continue
		}
		if err := st.repo.Touch(p); err != nil {
			return err
		}
		st.metrics.Autoupdated++
		b.logger.Info("Updated post", "slug", p.Slug(), "updated", p.Updated())
	}
	return nil
}

// snapshot freezes the post list and site bindings used by every render.
func (b *Builder) snapshot(st *runState) error {
	posts, err := st.repo.Posts()
	if err != nil {
		return err
	}
	drafts, err := st.repo.Drafts()
	if err != nil {
		return err
	}
	view, err := b.site.ContextFor(posts)
	if err != nil {
		return err
	}
	st.posts, st.drafts, st.view = posts, drafts, view
	return nil
}
