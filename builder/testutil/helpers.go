package testutil

import (
	iofs "io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// WriteFiles writes files below root.
func WriteFiles(t *testing.T, fs afero.Fs, root string, files Files) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// CreateSourceTree writes files into a fresh temporary directory on the real
// filesystem. Directory renames need a real filesystem, so anything that
// promotes output uses this instead of a MemMapFs.
func CreateSourceTree(t *testing.T, files Files) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewOsFs()
	dir := t.TempDir()
	WriteFiles(t, fs, dir, files)
	return fs, dir
}

// CreateMemTree writes files into an in-memory filesystem under /site.
func CreateMemTree(t *testing.T, files Files) (afero.Fs, string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	WriteFiles(t, fs, "/site", files)
	return fs, "/site"
}

// ReadFile returns the content of path, failing the test when it is missing.
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// AssertFileExists checks if a file exists in the filesystem
func AssertFileExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if !exists {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("Error checking file existence: %v", err)
	}
	if exists {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// ListTree returns every regular file below root as sorted, slash-separated
// relative paths.
func ListTree(t *testing.T, fs afero.Fs, root string) []string {
	t.Helper()
	var files []string
	err := afero.Walk(fs, root, func(path string, info iofs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}
	sort.Strings(files)
	return files
}
