package xsdgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/rs/zerolog"
)

// SchemaCache memoizes parsed schemas. Entries are keyed by resolved file
// path or by content key and each one is parsed at most once, even under
// concurrent lookups. Failed loads are not kept. With a positive entry limit
// the least recently used schema is evicted first. Cached schemas are shared
// and must not be mutated.
type SchemaCache struct {
	mu       sync.Mutex
	schemas  *lru.Cache
	BasePath string // Base path for resolving relative schema locations

	log     zerolog.Logger
	onHit   func()
	onEvict func()
}

// schemaEntry holds a schema and its loader
type schemaEntry struct {
	once   sync.Once
	schema *ParsedSchema
	err    error
}

// CacheOption configures a SchemaCache.
type CacheOption func(*SchemaCache)

// WithCacheLogger sets the logger for cache events and for the parsers the
// cache creates.
func WithCacheLogger(l zerolog.Logger) CacheOption {
	return func(sc *SchemaCache) { sc.log = l }
}

// WithHitHook registers a callback invoked on every cache hit.
func WithHitHook(fn func()) CacheOption {
	return func(sc *SchemaCache) { sc.onHit = fn }
}

// WithMaxEntries bounds the cache to n schemas. Zero or less means no limit.
func WithMaxEntries(n int) CacheOption {
	return func(sc *SchemaCache) { sc.schemas.MaxEntries = max(n, 0) }
}

// WithEvictHook registers a callback invoked when the entry limit pushes a
// schema out of the cache.
func WithEvictHook(fn func()) CacheOption {
	return func(sc *SchemaCache) { sc.onEvict = fn }
}

// NewSchemaCache creates a new schema cache
func NewSchemaCache(basePath string, opts ...CacheOption) *SchemaCache {
	sc := &SchemaCache{
		schemas:  lru.New(0),
		BasePath: basePath,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Get returns the schema stored at location, parsing the file on first use.
func (sc *SchemaCache) Get(location string) (*ParsedSchema, error) {
	path := sc.resolvePath(location)
	return sc.load(path, func() (*ParsedSchema, error) {
		return sc.loadSchema(path)
	})
}

// GetOrParse returns the schema cached under ContentKey(text), parsing text
// on first use.
func (sc *SchemaCache) GetOrParse(text string) (*ParsedSchema, error) {
	key := ContentKey(text)
	return sc.load(key, func() (*ParsedSchema, error) {
		return NewParser(WithParserLogger(sc.log)).Parse(text)
	})
}

func (sc *SchemaCache) load(key string, loader func() (*ParsedSchema, error)) (*ParsedSchema, error) {
	sc.mu.Lock()
	v, hit := sc.schemas.Get(key)
	evicted := false
	if !hit {
		limit := sc.schemas.MaxEntries
		evicted = limit > 0 && sc.schemas.Len() >= limit
		v = &schemaEntry{}
		sc.schemas.Add(key, v)
	}
	sc.mu.Unlock()
	entry := v.(*schemaEntry)

	switch {
	case hit:
		sc.log.Debug().Str("key", key).Msg("schema cache hit")
		if sc.onHit != nil {
			sc.onHit()
		}
	case evicted:
		sc.log.Debug().Str("key", key).Msg("schema cache full, evicted least recently used entry")
		if sc.onEvict != nil {
			sc.onEvict()
		}
	}

	entry.once.Do(func() {
		entry.schema, entry.err = loader()
	})
	if entry.err != nil {
		sc.forget(key, entry)
	}
	return entry.schema, entry.err
}

// forget drops key if it still maps to entry.
func (sc *SchemaCache) forget(key string, entry *schemaEntry) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if v, ok := sc.schemas.Get(key); ok && v == entry {
		sc.schemas.Remove(key)
	}
}

// Len returns the number of cached entries.
func (sc *SchemaCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.schemas.Len()
}

// Clear removes all cached schemas
func (sc *SchemaCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.schemas.Clear()
}

// Remove removes a specific schema from cache. location is either a file
// location as passed to Get or a key returned by ContentKey.
func (sc *SchemaCache) Remove(location string) {
	key := location
	if !strings.HasPrefix(location, contentKeyPrefix) {
		key = sc.resolvePath(location)
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.schemas.Remove(key)
}

const contentKeyPrefix = "sha256:"

// ContentKey derives the cache key for schema text.
func ContentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return contentKeyPrefix + hex.EncodeToString(sum[:])
}

// resolvePath resolves a schema location to an absolute path
func (sc *SchemaCache) resolvePath(location string) string {
	if filepath.IsAbs(location) {
		return location
	}
	if sc.BasePath != "" {
		return filepath.Join(sc.BasePath, location)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return location
	}
	return abs
}

// loadSchema loads a schema from disk
func (sc *SchemaCache) loadSchema(path string) (*ParsedSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	schema, err := NewParser(WithParserLogger(sc.log), WithFileName(path)).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XSD schema %s: %w", path, err)
	}

	sc.log.Debug().
		Str("path", path).
		Int("elements", len(schema.Elements)).
		Int("warnings", len(schema.Warnings())).
		Msg("schema loaded")
	return schema, nil
}
