// Package assets shares one compiled appearance package between goroutines.
package assets

import (
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/loader"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sprite"
)

// Manager serializes access to a loader and exposes its database read-only.
// The database is immutable after Open and is read without locking; every
// call that touches the loader holds mu. Sprite file reads and
// decompression run outside mu, one at a time per sprite id.
type Manager struct {
	dir    string
	db     *appearance.Database
	loader *loader.Loader
	log    *zap.Logger
	mu     sync.Mutex
	loads  singleflight.Group
}

// Options configures Open.
type Options struct {
	Logger      *zap.Logger
	LenientTags bool
	Preload     bool // Load every sprite before Open returns
}

// Open loads the package in dir.
func Open(dir string, opts Options) (*Manager, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	lopts := []loader.Option{loader.WithLogger(log)}
	if opts.LenientTags {
		lopts = append(lopts, loader.WithLenientTags())
	}

	load := loader.LoadDatabaseOnly
	if opts.Preload {
		load = loader.LoadAll
	}
	db, ld, err := load(dir, lopts...)
	if err != nil {
		return nil, errors.Wrapf(err, "opening package %s", dir)
	}

	log.Info("opened appearance package",
		zap.String("dir", dir),
		zap.Int("appearances", db.Count()),
		zap.Int("preloaded", ld.CachedCount()))

	return &Manager{dir: dir, db: db, loader: ld, log: log}, nil
}

// Dir returns the package directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Database returns the parsed index. Callers must not modify it.
func (m *Manager) Database() *appearance.Database {
	return m.db
}

// Appearance looks up an appearance by id.
func (m *Manager) Appearance(id uint32) (*appearance.CompiledAppearance, bool) {
	return m.db.Get(id)
}

// Sprite returns sprite id, loading it on first use. Concurrent first
// requests for the same id share one load; each call counts once in the
// cache stats.
func (m *Manager) Sprite(id uint32) (*sprite.Sprite, error) {
	if s, ok := m.cached(id); ok {
		return s, nil
	}

	led := false
	v, err, _ := m.loads.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		led = true
		m.mu.Lock()
		s, ok := m.loader.Cached(id)
		m.mu.Unlock()
		if ok {
			return s, nil
		}

		s, err := sprite.ReadFile(m.dir, id)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		return m.loader.Store(s), nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "sprite %d", id)
	}
	if !led {
		// Count the shared result as a hit.
		m.mu.Lock()
		m.loader.Cached(id)
		m.mu.Unlock()
	}
	return v.(*sprite.Sprite), nil
}

// cached returns sprite id if it is already cached, recording a hit.
// A miss is left for the loading call to record.
func (m *Manager) cached(id uint32) (*sprite.Sprite, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loader.Contains(id) {
		return nil, false
	}
	return m.loader.Cached(id)
}

// Preload loads every sprite referenced by appearance id.
func (m *Manager) Preload(id uint32) error {
	app, ok := m.db.Get(id)
	if !ok {
		return errors.Errorf("appearance %d not in package", id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loader.PreloadAppearance(app); err != nil {
		return errors.Wrapf(err, "preloading appearance %d (%s)", app.ID, app.Name)
	}
	return nil
}

// Stats reports the sprite cache state.
type Stats struct {
	Sprites int
	Bytes   int
	Hits    int
	Misses  int
}

// Stats returns a snapshot of the sprite cache.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	hits, misses := m.loader.CacheStats()
	return Stats{
		Sprites: m.loader.CachedCount(),
		Bytes:   m.loader.CacheBytes(),
		Hits:    hits,
		Misses:  misses,
	}
}

// ClearCache evicts every cached sprite.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loader.ClearCache()
	m.log.Debug("cleared sprite cache", zap.String("dir", m.dir))
}
