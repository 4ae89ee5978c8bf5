package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvMode names the variable that selects the run mode.
const EnvMode = "QUIRE_ENV"

// ModeProduction is the EnvMode value that enables filesystem-backed template
// helpers such as file_digest.
const ModeProduction = "production"

// LoadEnv loads dir/.env into the process environment. Variables already set
// take precedence and a missing file is not an error.
func LoadEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IsProduction reports whether QUIRE_ENV=production.
func IsProduction() bool {
	return os.Getenv(EnvMode) == ModeProduction
}
