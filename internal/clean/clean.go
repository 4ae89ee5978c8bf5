// Package clean removes generated directories from a site.
package clean

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/quire/builder/site"
)

// Result lists the directories that were removed.
type Result struct {
	Removed []string
}

// Run deletes the staging area and old backups. With all set the live tree
// goes too, which makes the next generation start from scratch.
func Run(fsys afero.Fs, dir string, all bool, out io.Writer) (*Result, error) {
	start := time.Now()
	targets := []string{site.TmpDir, site.BackupsDir}
	if all {
		targets = append(targets, site.LiveDir)
	}

	res := &Result{}
	for _, name := range targets {
		removed, err := cleanDir(fsys, filepath.Join(dir, name))
		if err != nil {
			return res, err
		}
		if removed {
			fmt.Fprintf(out, "🧹 Removed %s/\n", name)
			res.Removed = append(res.Removed, name)
		}
	}

	if len(res.Removed) == 0 {
		fmt.Fprintln(out, "🧹 Nothing to clean")
		return res, nil
	}
	fmt.Fprintf(out, "🧹 Clean finished in %v.\n", time.Since(start))
	return res, nil
}

func cleanDir(fsys afero.Fs, path string) (bool, error) {
	if ok, err := afero.DirExists(fsys, path); err != nil || !ok {
		return false, err
	}
	if err := fsys.RemoveAll(path); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}
