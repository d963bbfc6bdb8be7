package dist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type releaseCacheEntry struct {
	Release   Release   `json:"release"`
	FetchedAt time.Time `json:"fetched_at"`
}

type releaseCacheFile struct {
	Entries map[string]releaseCacheEntry `json:"entries"`
}

// ReleaseCache remembers tracking-channel lookups on disk for TTL. Cache
// failures are never fatal; a broken cache behaves like an empty one.
type ReleaseCache struct {
	Path string
	TTL  time.Duration
	now  func() time.Time
}

// NewReleaseCache returns a cache stored at path.
func NewReleaseCache(path string, ttl time.Duration) *ReleaseCache {
	return &ReleaseCache{Path: path, TTL: ttl, now: time.Now}
}

func (c *ReleaseCache) load() releaseCacheFile {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return releaseCacheFile{Entries: map[string]releaseCacheEntry{}}
	}
	var rc releaseCacheFile
	if err := json.Unmarshal(data, &rc); err != nil {
		return releaseCacheFile{Entries: map[string]releaseCacheEntry{}}
	}
	if rc.Entries == nil {
		rc.Entries = map[string]releaseCacheEntry{}
	}
	return rc
}

func (c *ReleaseCache) save(rc releaseCacheFile) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return
	}
	data, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.Path, data, 0o644)
}

// Get returns a cached release if present and not expired.
func (c *ReleaseCache) Get(key string) (Release, bool) {
	entry, ok := c.load().Entries[key]
	if !ok {
		return Release{}, false
	}
	if c.now().Sub(entry.FetchedAt) > c.TTL {
		return Release{}, false
	}
	return entry.Release, true
}

// Put stores rel under key.
func (c *ReleaseCache) Put(key string, rel Release) {
	rc := c.load()
	rc.Entries[key] = releaseCacheEntry{Release: rel, FetchedAt: c.now()}
	c.save(rc)
}
