package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/site"
	"github.com/Kush-Singh-26/quire/internal/draft"
)

// DraftCmd implements the 'draft' command.
type DraftCmd struct {
	Title string `arg:"" help:"Title of the draft"`
	Slug  string `help:"File name and URL slug (derived from the title by default)"`
}

func (d *DraftCmd) Run(_ *Global, root *CLI) error {
	dir, err := filepath.Abs(root.Dir)
	if err != nil {
		return err
	}
	s, err := site.New(afero.NewOsFs(), dir)
	if err != nil {
		return err
	}
	return draft.Run(s, d.Title, d.Slug, os.Stdout)
}
