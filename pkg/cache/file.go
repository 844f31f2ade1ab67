package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entryExt is the suffix of every entry file. Other files in the directory
// are left alone by Purge.
const entryExt = ".frame.json"

// FileCache keeps rendered frames on disk, one JSON entry per key, fanned
// out over 256 subdirectories by key hash. The CLI uses
// $XDG_CACHE_HOME/rankplay.
//
// Entries are written to a temporary file and renamed into place, so a
// concurrent reader sees either the old entry or the new one.
type FileCache struct {
	dir string
}

// NewFileCache opens a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the root directory.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get implements Cache. Expired entries, unreadable entries and entries
// stored under a different key are misses and get removed.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	e, err := readEntry(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements Cache.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	e := fileEntry{Key: key, Data: data, CreatedAt: now}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete implements Cache.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Cache. It holds no resources.
func (c *FileCache) Close() error { return nil }

// PurgeStats summarizes a Purge run.
type PurgeStats struct {
	Removed int   // entries deleted
	Kept    int   // entries left in place
	Bytes   int64 // size of the deleted entry files
}

// Purge walks the cache directory and deletes entries. With all set every
// entry goes; otherwise only expired and unreadable ones. Emptied
// subdirectories are removed. Purge stops early when ctx is cancelled.
func (c *FileCache) Purge(ctx context.Context, all bool) (PurgeStats, error) {
	var st PurgeStats
	now := time.Now()
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.HasSuffix(path, entryExt) {
			return nil
		}
		if !all {
			if e, err := readEntry(path); err == nil && !e.expired(now) {
				st.Kept++
				return nil
			}
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if os.Remove(path) == nil {
			st.Removed++
			st.Bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return st, err
	}

	subdirs, _ := os.ReadDir(c.dir)
	for _, sd := range subdirs {
		if sd.IsDir() {
			// Fails unless empty.
			_ = os.Remove(filepath.Join(c.dir, sd.Name()))
		}
	}
	return st, nil
}

// path maps key to <dir>/<first two hex chars>/<rest>.frame.json.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func readEntry(path string) (*fileEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

var _ Cache = (*FileCache)(nil)
