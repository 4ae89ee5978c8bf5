package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func writeConfig(t *testing.T, fsys afero.Fs, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, filepath.Join("/site", FileName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	fsys := afero.NewMemMapFs()

	cfg, err := Load(fsys, "/site")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Permalink != DefaultPermalink {
		t.Errorf("Permalink = %q, want %q", cfg.Permalink, DefaultPermalink)
	}
	if cfg.Archive.Enabled {
		t.Error("Archives should be disabled by default")
	}
	if cfg.Archive.URLFormat != DefaultArchiveFormat {
		t.Errorf("Archive.URLFormat = %q, want %q", cfg.Archive.URLFormat, DefaultArchiveFormat)
	}
	if cfg.Output.KeepBackups != DefaultKeepBackups {
		t.Errorf("Output.KeepBackups = %d, want %d", cfg.Output.KeepBackups, DefaultKeepBackups)
	}
	if cfg.Digest.Algorithm != DigestMD5 {
		t.Errorf("Digest.Algorithm = %q, want %q", cfg.Digest.Algorithm, DigestMD5)
	}
	if cfg.Publish.Scheduled {
		t.Error("Scheduled publishing should be off by default")
	}
	if cfg.AdminEnabled() {
		t.Error("Admin should not be enabled without credentials")
	}
}

func TestLoad_FromYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, `
permalink: /blog/:year/:title
archive:
  enabled: true
  url_format: /posts/:year/:month
output:
  minify: true
  keep_backups: 2
digest:
  algorithm: blake3
  check_mtime: true
publish:
  scheduled: true
admin:
  username: editor
  password_hash: "$2a$10$abcdefghijklmnopqrstuv"
`)

	cfg, err := Load(fsys, "/site")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Permalink != "/blog/:year/:title" {
		t.Errorf("Permalink = %q", cfg.Permalink)
	}
	if !cfg.Archive.Enabled {
		t.Error("Archives should be enabled")
	}
	if cfg.Archive.URLFormat != "/posts/:year/:month" {
		t.Errorf("Archive.URLFormat = %q", cfg.Archive.URLFormat)
	}
	if !cfg.Output.Minify || cfg.Output.Precompress {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.Output.KeepBackups != 2 {
		t.Errorf("Output.KeepBackups = %d, want 2", cfg.Output.KeepBackups)
	}
	if cfg.Digest.Algorithm != DigestBLAKE3 || !cfg.Digest.CheckMtime {
		t.Errorf("Digest = %+v", cfg.Digest)
	}
	if !cfg.Publish.Scheduled {
		t.Error("Scheduled publishing should be enabled")
	}
	if !cfg.AdminEnabled() {
		t.Error("Admin should be enabled")
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "archive:\n  enabled: true\n")

	cfg, err := Load(fsys, "/site")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Archive.Enabled {
		t.Error("Archives should be enabled")
	}
	if cfg.Archive.URLFormat != DefaultArchiveFormat {
		t.Errorf("Archive.URLFormat = %q, want default", cfg.Archive.URLFormat)
	}
	if cfg.Permalink != DefaultPermalink {
		t.Errorf("Permalink = %q, want default", cfg.Permalink)
	}
}

func TestLoad_Validation(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, `
permalink: ":title"
archive:
  url_format: ""
output:
  keep_backups: -3
digest:
  algorithm: sha1
`)

	cfg, err := Load(fsys, "/site")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Permalink != "/:title" {
		t.Errorf("Permalink = %q, want leading slash added", cfg.Permalink)
	}
	if cfg.Archive.URLFormat != DefaultArchiveFormat {
		t.Errorf("Archive.URLFormat = %q, want default", cfg.Archive.URLFormat)
	}
	if cfg.Output.KeepBackups != 0 {
		t.Errorf("Output.KeepBackups = %d, want 0", cfg.Output.KeepBackups)
	}
	if cfg.Digest.Algorithm != DigestMD5 {
		t.Errorf("Digest.Algorithm = %q, want md5 fallback", cfg.Digest.Algorithm)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "archive: [unclosed")

	if _, err := Load(fsys, "/site"); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvMode, "")

	if err := LoadEnv(dir); err != nil {
		t.Fatalf("LoadEnv() without .env failed: %v", err)
	}
	if IsProduction() {
		t.Error("IsProduction() should be false without .env")
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("QUIRE_ENV=production\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// godotenv never overrides variables that are already present.
	if err := os.Unsetenv(EnvMode); err != nil {
		t.Fatalf("Unsetenv failed: %v", err)
	}
	if err := LoadEnv(dir); err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if !IsProduction() {
		t.Error("IsProduction() should be true after loading .env")
	}
}
