package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// validatePath ensures that the user-provided path is within the base directory
// and prevents path traversal attacks.
func validatePath(baseDir, userPath string) (string, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("invalid base directory: %w", err)
	}

	absUserPath, err := filepath.Abs(filepath.Join(absBase, filepath.FromSlash(path.Clean("/"+userPath))))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	relPath, err := filepath.Rel(absBase, absUserPath)
	if err != nil {
		return "", fmt.Errorf("path validation error: %w", err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt detected")
	}

	return absUserPath, nil
}

// resolveFile maps a request path onto the live tree. Posts and archive pages
// are linked without their .html extension, so an extensionless path falls
// back to the .html file of the same name.
func resolveFile(liveDir, urlPath string) (string, os.FileInfo, error) {
	full, err := validatePath(liveDir, urlPath)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(full)
	if err == nil {
		if info.IsDir() {
			index := filepath.Join(full, "index.html")
			if ii, ierr := os.Stat(index); ierr == nil {
				return index, ii, nil
			}
		}
		return full, info, nil
	}
	if errors.Is(err, fs.ErrNotExist) && filepath.Ext(full) == "" {
		withExt := full + ".html"
		if hi, herr := os.Stat(withExt); herr == nil && !hi.IsDir() {
			return withExt, hi, nil
		}
	}
	return "", nil, err
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	full, info, err := resolveFile(s.liveDir, r.URL.Path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.notFound(w)
		case strings.Contains(err.Error(), "traversal"):
			http.Error(w, "403 - Forbidden: Invalid path", http.StatusForbidden)
		default:
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	if info.IsDir() {
		s.notFound(w)
		return
	}

	if strings.HasSuffix(full, ".html") || strings.HasSuffix(full, ".xml") {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=60")
	}

	f, err := os.Open(full)
	if err != nil {
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if content, err := os.ReadFile(filepath.Join(s.liveDir, "404.html")); err == nil {
		_, _ = w.Write(content)
		return
	}
	_, _ = w.Write([]byte("404 - Page Not Found"))
}
