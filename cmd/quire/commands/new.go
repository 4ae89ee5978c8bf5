package commands

import (
	"fmt"

	"github.com/Kush-Singh-26/quire/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Path string `arg:"" help:"Directory of the new site" type:"path"`
	Git  bool   `help:"Initialize a git repository and commit the new site"`
}

func (n *NewCmd) Run(_ *Global, _ *CLI) error {
	fmt.Println("🌱 Initializing new site...")
	res, err := scaffold.Run(scaffold.Options{Dir: n.Path, Git: n.Git})
	if err != nil {
		return err
	}
	for _, name := range res.Created {
		fmt.Printf("📁 Created %s\n", name)
	}
	for _, name := range res.Skipped {
		fmt.Printf("⏭️  Kept existing %s\n", name)
	}
	if res.Commit != "" {
		fmt.Printf("📦 Committed %s\n", res.Commit[:7])
	}
	fmt.Printf("✅ Site ready in %s. Run \"quire dev -d %s\" to preview it.\n", res.Dir, n.Path)
	return nil
}
