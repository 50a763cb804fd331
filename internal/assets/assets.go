// Package assets handles layered resource pack access and caching.
package assets

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound indicates no root holds the requested file.
var ErrNotFound = errors.New("asset not found")

type root struct {
	name   string
	fsys   fs.FS
	closer io.Closer
}

// Manager reads files from one or more pack roots.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots []root
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a pack directory or zipped pack to the manager.
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening pack %s: %w", dir, err)
	}

	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(dir), ".zip") {
			return fmt.Errorf("opening pack %s: not a directory or zip archive", dir)
		}
		zr, err := zip.OpenReader(dir)
		if err != nil {
			return fmt.Errorf("opening pack %s: %w", dir, err)
		}
		m.addRoot(root{name: dir, fsys: zr, closer: zr})
		return nil
	}

	m.AddFS(dir, os.DirFS(dir))
	return nil
}

// AddFS adds an arbitrary file system as a pack root.
func (m *Manager) AddFS(name string, fsys fs.FS) {
	m.addRoot(root{name: name, fsys: fsys})
}

func (m *Manager) addRoot(r root) {
	m.mu.Lock()
	m.roots = append(m.roots, r)
	m.mu.Unlock()
	m.cache.Clear()
}

// Roots returns the root names in priority order, lowest first.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.roots))
	for _, r := range m.roots {
		out = append(out, r.name)
	}
	return out
}

// Load loads a file from the roots.
func (m *Manager) Load(name string) ([]byte, error) {
	name = normalizePath(name)

	// Check cache first
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := fs.ReadFile(m.roots[i].fsys, name)
		if err == nil {
			m.cache.Set(name, data)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s from %s: %w", name, m.roots[i].name, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Exists reports whether any root holds name.
func (m *Manager) Exists(name string) bool {
	name = normalizePath(name)
	if _, ok := m.cache.Get(name); ok {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.roots) - 1; i >= 0; i-- {
		if _, err := fs.Stat(m.roots[i].fsys, name); err == nil {
			return true
		}
	}
	return false
}

// List returns the files under dir in every root, with the given suffix,
// deduplicated and sorted.
func (m *Manager) List(dir, suffix string) ([]string, error) {
	dir = normalizePath(dir)

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for _, r := range m.roots {
		err := fs.WalkDir(r.fsys, dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, suffix) {
				seen[p] = true
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("listing %s in %s: %w", dir, r.name, err)
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops cached file contents, e.g. after a pack changed on disk.
func (m *Manager) Invalidate() {
	m.cache.Clear()
}

// Close drops all roots, closing any open archives.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roots {
		if r.closer != nil {
			r.closer.Close()
		}
	}
	m.roots = nil
	m.cache.Clear()
}

// Stats returns cache hit and miss counts.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}
