package utils

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// HashDir generates a deterministic BLAKE3 hash of a directory tree from its
// relative file paths and contents. A missing directory hashes to "".
func HashDir(fsys afero.Fs, dir string) (string, error) {
	if _, err := fsys.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	files, err := ListFiles(fsys, dir, nil)
	if err != nil {
		return "", err
	}

	h := blake3.New()
	for _, rel := range files {
		if _, err := fmt.Fprintf(h, "%s\x00", rel); err != nil {
			return "", fmt.Errorf("failed to write to hash: %w", err)
		}
		f, err := fsys.Open(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", err
		}
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
