package analyze

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const cacheFileName = "results.gob"

type cacheEntry struct {
	Hash      string
	Result    Result
	CreatedAt time.Time
}

// Cache remembers results per file. An entry is valid while both the file
// content and the configuration are unchanged.
type Cache struct {
	dir     string
	salt    []byte
	mutex   sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates a cache for results produced under config. With an empty
// dir the cache lives in memory only; otherwise it is loaded from and saved
// to a file in dir.
func NewCache(dir string, config Config) (*Cache, error) {
	salt, err := yaml.Marshal(config)
	if err != nil {
		return nil, err
	}
	c := &Cache{dir: dir, salt: salt, entries: make(map[string]cacheEntry)}
	if dir == "" {
		return c, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.dir, cacheFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(&c.entries)
}

func (c *Cache) save() error {
	if c.dir == "" {
		return nil
	}
	file, err := os.Create(filepath.Join(c.dir, cacheFileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(c.entries)
}

func (c *Cache) hash(content []byte) string {
	h := sha256.New()
	h.Write(c.salt)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the result stored for path if content still matches.
func (c *Cache) Get(path string, content []byte) (Result, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.entries[path]
	if !ok {
		return Result{}, false
	}
	if entry.Hash != c.hash(content) {
		delete(c.entries, path)
		return Result{}, false
	}
	return entry.Result, true
}

// Set stores r for path and content.
func (c *Cache) Set(path string, content []byte, r Result) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[path] = cacheEntry{Hash: c.hash(content), Result: r, CreatedAt: time.Now()}
	return c.save()
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

// CachedAnalyzer consults a cache before delegating to another analyzer.
type CachedAnalyzer struct {
	analyzer Analyzer
	cache    *Cache
}

// NewCachedAnalyzer wraps analyzer with cache.
func NewCachedAnalyzer(analyzer Analyzer, cache *Cache) *CachedAnalyzer {
	return &CachedAnalyzer{analyzer: analyzer, cache: cache}
}

// AnalyzeFile returns the cached result when the file is unchanged.
func (ca *CachedAnalyzer) AnalyzeFile(path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	if r, ok := ca.cache.Get(path, content); ok {
		return r, nil
	}
	r, err := ca.analyzer.AnalyzeFile(path)
	if err != nil {
		return r, err
	}
	return r, ca.cache.Set(path, content, r)
}
