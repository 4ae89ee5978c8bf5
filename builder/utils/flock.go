package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("locked by another process")

type FileLock struct {
	file *os.File
	path string
}

// AcquireLock takes an exclusive advisory lock on path without waiting.
// The file is created if needed and left in place on release.
func AcquireLock(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	// Non-blocking lock - fail fast if another generation is running
	if err := tryLock(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	// Write PID for debugging
	pid := fmt.Sprintf("%d\n%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	_ = file.Truncate(0)
	_, _ = file.WriteAt([]byte(pid), 0)

	return &FileLock{file: file, path: path}, nil
}

// Release unlocks and closes the file. It is safe on a nil lock.
func (fl *FileLock) Release() error {
	if fl == nil || fl.file == nil {
		return nil
	}

	_ = unlock(fl.file)
	err := fl.file.Close()
	fl.file = nil
	return err
}
