// Package draft implements "quire draft", which starts a new draft file.
package draft

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/site"
)

const body = `Start writing here...
`

// Run creates _drafts/<slug>.md for title and reports the outcome on out.
// slug may be empty.
func Run(s *site.Site, title, slug string, out io.Writer) error {
	d, err := s.CreateDraft(title, slug, body)
	if err != nil {
		var conflictErr *conflicts.ConflictError
		if errors.As(err, &conflictErr) {
			for _, url := range conflictErr.URLs() {
				fmt.Fprintf(out, "❌ %s is already used by:\n", url)
				for _, f := range conflictErr.Conflicts[url] {
					if f.Path() != "" {
						fmt.Fprintf(out, "   - %s\n", rel(s.Dir, f.Path()))
					}
				}
			}
		}
		return err
	}

	fmt.Fprintf(out, "✅ Created: %s\n", rel(s.Dir, d.Path()))
	fmt.Fprintf(out, "   The next generation publishes a preview under /drafts/%s/\n", d.Slug())
	return nil
}

func rel(dir, path string) string {
	if r, err := filepath.Rel(dir, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}
