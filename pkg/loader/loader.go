// Package loader reads compiled appearance packages.
//
// A Loader parses the index into an appearance.Database and decompresses
// sprite records into a cache it owns. Loaders are not safe for concurrent
// use; hosts that share one between goroutines must serialize calls.
package loader

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sprite"
)

// Loader reads one compiled package directory.
type Loader struct {
	dir   string
	opts  appearance.IndexOptions
	log   *zap.Logger
	cache *sprite.Cache
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load messages.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// WithLenientTags makes the index parser decode unknown direction codes as
// North instead of failing with appearance.ErrCorruptIndex.
func WithLenientTags() Option {
	return func(ld *Loader) { ld.opts.LenientTags = true }
}

// New creates a loader for the package in dir.
func New(dir string, opts ...Option) *Loader {
	ld := &Loader{
		dir:   dir,
		log:   zap.NewNop(),
		cache: sprite.NewCache(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Dir returns the package directory.
func (ld *Loader) Dir() string {
	return ld.dir
}

// LoadDatabase reads and parses the index file.
func (ld *Loader) LoadDatabase() (*appearance.Database, error) {
	path := filepath.Join(ld.dir, appearance.IndexFileName)
	db, err := appearance.ParseIndexFile(path, ld.opts)
	if err != nil {
		return nil, err
	}
	ld.log.Debug("loaded appearance index",
		zap.String("path", path),
		zap.Uint32("version", db.Version),
		zap.Int("appearances", db.Count()))
	return db, nil
}

// LoadSprite returns sprite id, reading and decompressing its record on the
// first request and serving it from the cache afterwards.
func (ld *Loader) LoadSprite(id uint32) (*sprite.Sprite, error) {
	if s, ok := ld.cache.Get(id); ok {
		return s, nil
	}
	s, err := sprite.ReadFile(ld.dir, id)
	if err != nil {
		return nil, err
	}
	return ld.cache.Insert(s), nil
}

// PreloadSprites loads every id not cached yet. It stops at the first error;
// sprites loaded before it stay cached.
func (ld *Loader) PreloadSprites(ids []uint32) error {
	for _, id := range ids {
		if ld.cache.Contains(id) {
			continue
		}
		s, err := sprite.ReadFile(ld.dir, id)
		if err != nil {
			return err
		}
		ld.cache.Insert(s)
	}
	return nil
}

// PreloadAppearance loads every sprite referenced by app.
func (ld *Loader) PreloadAppearance(app *appearance.CompiledAppearance) error {
	return ld.PreloadSprites(app.SpriteIDs())
}

// Cached returns sprite id if it is cached. It never performs I/O.
func (ld *Loader) Cached(id uint32) (*sprite.Sprite, bool) {
	return ld.cache.Get(id)
}

// Contains reports whether id is cached without touching the cache stats.
func (ld *Loader) Contains(id uint32) bool {
	return ld.cache.Contains(id)
}

// Store caches a sprite read outside the loader, e.g. with sprite.ReadFile.
// If id is already cached the existing sprite is kept and returned.
func (ld *Loader) Store(s *sprite.Sprite) *sprite.Sprite {
	return ld.cache.Insert(s)
}

// ClearCache evicts every cached sprite.
func (ld *Loader) ClearCache() {
	ld.cache.Clear()
}

// CachedCount returns the number of cached sprites.
func (ld *Loader) CachedCount() int {
	return ld.cache.Len()
}

// CacheBytes returns the total pixel bytes held by the cache.
func (ld *Loader) CacheBytes() int {
	return ld.cache.Bytes()
}

// CacheStats returns cache hit and miss counts.
func (ld *Loader) CacheStats() (hits, misses int) {
	return ld.cache.Stats()
}

// LoadAll loads the database and every sprite it references.
func LoadAll(dir string, opts ...Option) (*appearance.Database, *Loader, error) {
	ld := New(dir, opts...)
	db, err := ld.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}
	if err := ld.PreloadSprites(db.SpriteIDs()); err != nil {
		return nil, nil, err
	}
	ld.log.Debug("preloaded sprites", zap.Int("sprites", ld.CachedCount()), zap.Int("bytes", ld.CacheBytes()))
	return db, ld, nil
}

// LoadDatabaseOnly loads the database and defers sprite I/O to first use.
func LoadDatabaseOnly(dir string, opts ...Option) (*appearance.Database, *Loader, error) {
	ld := New(dir, opts...)
	db, err := ld.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}
	return db, ld, nil
}
