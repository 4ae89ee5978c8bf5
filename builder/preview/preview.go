// Package preview assigns stable, unguessable preview paths to drafts.
package preview

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DraftsDir is the output directory holding draft previews.
const DraftsDir = "drafts"

// idBytes is the amount of randomness in a minted preview id.
const idBytes = 30

// Allocator looks up previews in the previously generated output tree. It
// must never point at the staging tree, or ids would change on every run.
type Allocator struct {
	fs      afero.Fs
	liveDir string
	rand    io.Reader
}

func NewAllocator(fsys afero.Fs, liveDir string) *Allocator {
	return &Allocator{fs: fsys, liveDir: liveDir, rand: rand.Reader}
}

// URLFor returns the preview URL of an existing preview for slug, shaped as
// /drafts/<slug>/<id>. The first regular file in lexical order wins.
func (a *Allocator) URLFor(slug string) (string, bool, error) {
	dir := filepath.Join(a.liveDir, DraftsDir, slug)
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to scan previews for %q: %w", slug, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false, nil
	}
	sort.Strings(names)

	id := strings.TrimSuffix(names[0], filepath.Ext(names[0]))
	return "/" + path.Join(DraftsDir, slug, id), true, nil
}

// Allocate returns the output path, relative to the output root, for the
// preview of slug. An existing preview id is reused.
func (a *Allocator) Allocate(slug string) (string, error) {
	url, ok, err := a.URLFor(slug)
	if err != nil {
		return "", err
	}
	if ok {
		return strings.TrimPrefix(url, "/") + ".html", nil
	}

	id, err := a.mint()
	if err != nil {
		return "", err
	}
	return path.Join(DraftsDir, slug, id+".html"), nil
}

func (a *Allocator) mint() (string, error) {
	buf := make([]byte, idBytes)
	if _, err := io.ReadFull(a.rand, buf); err != nil {
		return "", fmt.Errorf("failed to mint preview id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
