package commands

import (
	"os"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/internal/clean"
)

// CleanCmd implements the 'clean' command.
type CleanCmd struct {
	All bool `help:"Also remove the live _site directory"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	_, err := clean.Run(afero.NewOsFs(), root.Dir, c.All, os.Stdout)
	return err
}
