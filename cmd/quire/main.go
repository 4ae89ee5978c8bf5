package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Kush-Singh-26/quire/cmd/quire/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("quire"),
		kong.Description("A static site generator for blogs with drafts, previews and archives."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	if err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
