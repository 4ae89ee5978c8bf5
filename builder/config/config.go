// Package config loads the site configuration from _config.yml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the source directory.
const FileName = "_config.yml"

const (
	DefaultPermalink     = "/:title"
	DefaultArchiveFormat = "/archive/:year/:month"
	DefaultKeepBackups   = 5

	DigestMD5    = "md5"
	DigestBLAKE3 = "blake3"
)

// Config is loaded once per site and treated as immutable afterwards.
type Config struct {
	Permalink string        `yaml:"permalink"`
	Archive   ArchiveConfig `yaml:"archive"`
	Output    OutputConfig  `yaml:"output"`
	Digest    DigestConfig  `yaml:"digest"`
	Publish   PublishConfig `yaml:"publish"`
	Admin     AdminConfig   `yaml:"admin"`
}

type ArchiveConfig struct {
	Enabled bool `yaml:"enabled"`
	// URLFormat may contain :year and :month. Replacement is a plain substring
	// replace, so a format must not contain other tokens starting with those
	// names (":yearly" would be corrupted).
	URLFormat string `yaml:"url_format"`
}

type OutputConfig struct {
	Minify      bool `yaml:"minify"`
	Precompress bool `yaml:"precompress"`
	KeepBackups int  `yaml:"keep_backups"` // 0 keeps every backup
}

type DigestConfig struct {
	Algorithm  string `yaml:"algorithm"`
	CheckMtime bool   `yaml:"check_mtime"`
}

// PublishConfig controls which drafts a generation publishes. "publish: now"
// always does; Scheduled also publishes drafts whose publish timestamp has
// passed.
type PublishConfig struct {
	Scheduled bool `yaml:"scheduled"`
}

type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// Default returns the configuration used when _config.yml is absent.
func Default() *Config {
	return &Config{
		Permalink: DefaultPermalink,
		Archive: ArchiveConfig{
			Enabled:   false,
			URLFormat: DefaultArchiveFormat,
		},
		Output: OutputConfig{
			KeepBackups: DefaultKeepBackups,
		},
		Digest: DigestConfig{
			Algorithm: DigestMD5,
		},
	}
}

// Load reads _config.yml from dir. A missing file yields Default(); a file
// that fails to parse is an error.
func Load(fsys afero.Fs, dir string) (*Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	cfg.validate()
	return cfg, nil
}

// validate resets values that cannot be used.
func (c *Config) validate() {
	if strings.TrimSpace(c.Permalink) == "" {
		slog.Warn("Empty permalink, using default", "default", DefaultPermalink)
		c.Permalink = DefaultPermalink
	}
	if !strings.HasPrefix(c.Permalink, "/") {
		c.Permalink = "/" + c.Permalink
	}

	if strings.TrimSpace(c.Archive.URLFormat) == "" {
		c.Archive.URLFormat = DefaultArchiveFormat
	}
	if !strings.HasPrefix(c.Archive.URLFormat, "/") {
		c.Archive.URLFormat = "/" + c.Archive.URLFormat
	}

	if c.Output.KeepBackups < 0 {
		c.Output.KeepBackups = 0
	}

	switch strings.ToLower(c.Digest.Algorithm) {
	case DigestMD5, "":
		c.Digest.Algorithm = DigestMD5
	case DigestBLAKE3:
		c.Digest.Algorithm = DigestBLAKE3
	default:
		slog.Warn("Unknown digest algorithm, using md5", "algorithm", c.Digest.Algorithm)
		c.Digest.Algorithm = DigestMD5
	}
}

// AdminEnabled reports whether credentials for the admin interface are set.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Username != "" && c.Admin.PasswordHash != ""
}
