package renderer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"

	"github.com/Kush-Singh-26/quire/builder/config"
)

// digestLen is the length of every digest in hex characters.
const digestLen = 32

type digestEntry struct {
	sum   string
	mtime time.Time
}

// DigestCache maps absolute file paths to content digests. Entries are only
// ever added, so a file edited while the process runs keeps its first digest
// unless CheckMtime is enabled.
type DigestCache struct {
	fs         afero.Fs
	algorithm  string
	checkMtime bool

	mu      sync.Mutex
	entries map[string]digestEntry
	hits    int
	misses  int
}

// NewDigestCache returns an empty cache. algorithm is config.DigestMD5 or
// config.DigestBLAKE3; anything else falls back to MD5.
func NewDigestCache(fsys afero.Fs, algorithm string, checkMtime bool) *DigestCache {
	if algorithm != config.DigestBLAKE3 {
		algorithm = config.DigestMD5
	}
	return &DigestCache{
		fs:         fsys,
		algorithm:  algorithm,
		checkMtime: checkMtime,
		entries:    make(map[string]digestEntry),
	}
}

// Digest returns the 32 hex character digest of the file at path.
func (c *DigestCache) Digest(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if ok && !c.checkMtime {
		c.hits++
		return entry.sum, nil
	}

	var mtime time.Time
	if c.checkMtime {
		info, err := c.fs.Stat(path)
		if err != nil {
			return "", fmt.Errorf("file_digest: %w", err)
		}
		mtime = info.ModTime()
		if ok && entry.mtime.Equal(mtime) {
			c.hits++
			return entry.sum, nil
		}
	}

	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", fmt.Errorf("file_digest: %w", err)
	}
	sum := c.sum(data)
	c.entries[path] = digestEntry{sum: sum, mtime: mtime}
	c.misses++
	return sum, nil
}

func (c *DigestCache) sum(data []byte) string {
	if c.algorithm == config.DigestBLAKE3 {
		h := blake3.Sum256(data)
		return hex.EncodeToString(h[:])[:digestLen]
	}
	h := md5.Sum(data)
	return hex.EncodeToString(h[:])
}

// Stats returns the number of cache hits and misses so far.
func (c *DigestCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *DigestCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
