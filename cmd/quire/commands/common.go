// Package commands holds the quire command line interface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/config"
	"github.com/Kush-Singh-26/quire/builder/conflicts"
	"github.com/Kush-Singh-26/quire/builder/metrics"
	"github.com/Kush-Singh-26/quire/builder/renderer"
	"github.com/Kush-Singh-26/quire/builder/run"
)

// Global is passed to every command's Run method.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Dir     string           `short:"d" help:"Site source directory" default:"." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate the site into _site"`
	Dev      DevCmd      `cmd:"" help:"Generate, watch for changes and serve the site locally"`
	Admin    AdminCmd    `cmd:"" help:"Serve the authenticated admin API"`
	New      NewCmd      `cmd:"" help:"Create a new site"`
	Draft    DraftCmd    `cmd:"" help:"Start a new draft"`
	Clean    CleanCmd    `cmd:"" help:"Remove staging and backup directories"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// builder loads dir/.env and returns a builder for the site. The run mode
// comes from QUIRE_ENV.
func (c *CLI) builder(g *Global, recorder metrics.Recorder) (*run.Builder, error) {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnv(dir); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	production := config.IsProduction()
	logger := g.logger()
	logger.Debug("Opening site", "dir", dir, "production", production)

	return run.NewBuilder(run.Options{
		Fs:         afero.NewOsFs(),
		Dir:        dir,
		Production: production,
		Logger:     logger,
		Recorder:   recorder,
	})
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// explain prints a readable account of a failed generation.
func explain(w io.Writer, err error) {
	var conflictErr *conflicts.ConflictError
	var syntaxErr *renderer.TemplateSyntaxError
	switch {
	case errors.As(err, &conflictErr):
		fmt.Fprintln(w, "❌ Generation refused, several files share a URL:")
		for _, url := range conflictErr.URLs() {
			fmt.Fprintf(w, "   %s\n", url)
			for _, f := range conflictErr.Conflicts[url] {
				fmt.Fprintf(w, "     - %s\n", f.Path())
			}
		}
	case errors.As(err, &syntaxErr):
		fmt.Fprintf(w, "❌ Template error in %s: %v\n", syntaxErr.Name, syntaxErr)
	default:
		fmt.Fprintf(w, "❌ Generation failed: %v\n", err)
	}
}
