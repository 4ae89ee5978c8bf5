package run

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// promote swaps the staging tree in with two renames: the live tree moves to
// a timestamped backup, then staging moves into its place. Readers of the
// live directory see either the old tree or the new one.
func (b *Builder) promote(st *runState) error {
	fsys := b.site.Fs
	live := b.liveDir()

	var backup string
	if _, err := fsys.Stat(live); err == nil {
		if err := fsys.MkdirAll(b.backupsDir(), 0755); err != nil {
			return fmt.Errorf("failed to create backups directory: %w", err)
		}
		backup, err = b.backupPath()
		if err != nil {
			return err
		}
		if err := fsys.Rename(live, backup); err != nil {
			return fmt.Errorf("failed to move live tree aside: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat live tree: %w", err)
	}

	if err := fsys.Rename(b.stagingDir(), live); err != nil {
		if backup != "" {
			if rerr := fsys.Rename(backup, live); rerr != nil {
				b.logger.Error("Failed to restore live tree", "backup", backup, "error", rerr)
			}
		}
		return fmt.Errorf("failed to promote staging: %w", err)
	}

	if err := fsys.RemoveAll(b.tmpDir()); err != nil {
		b.logger.Warn("Failed to remove temporary directory", "path", b.tmpDir(), "error", err)
	}
	if backup != "" {
		b.logger.Debug("Backed up previous tree", "path", backup)
	}
	// The new tree is live at this point; a failed prune is not a failed run.
	if err := b.pruneBackups(); err != nil {
		b.logger.Warn("Failed to prune backups", "error", err)
	}
	return nil
}

// backupPath names a backup after the current time, adding a counter when a
// backup from the same second already exists.
func (b *Builder) backupPath() (string, error) {
	base := filepath.Join(b.backupsDir(), backupNamePrefix+b.now().Format(backupTimeLayout))
	candidate := base
	for i := 1; ; i++ {
		_, err := b.site.Fs.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Backups lists backup directories, oldest first.
func (b *Builder) Backups() ([]string, error) {
	entries, err := afero.ReadDir(b.site.Fs, b.backupsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), backupNamePrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (b *Builder) pruneBackups() error {
	keep := b.cfg.Output.KeepBackups
	if keep <= 0 {
		return nil
	}
	names, err := b.Backups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	for len(names) > keep {
		path := filepath.Join(b.backupsDir(), names[0])
		if err := b.site.Fs.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to prune backup %s: %w", names[0], err)
		}
		names = names[1:]
	}
	return nil
}
