package sprite

// Cache maps sprite ids to decompressed sprites. It has no internal locking;
// it belongs to exactly one loader and is mutated only through Insert and
// Clear.
type Cache struct {
	sprites map[uint32]*Sprite
	bytes   int

	// Stats
	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		sprites: make(map[uint32]*Sprite),
	}
}

// Get returns the cached sprite for id.
func (c *Cache) Get(id uint32) (*Sprite, bool) {
	s, ok := c.sprites[id]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return s, ok
}

// Contains reports whether id is cached without touching the stats.
func (c *Cache) Contains(id uint32) bool {
	_, ok := c.sprites[id]
	return ok
}

// Insert stores s unless its id is already cached, and returns the sprite
// that ends up cached for that id.
func (c *Cache) Insert(s *Sprite) *Sprite {
	if existing, ok := c.sprites[s.ID]; ok {
		return existing
	}
	c.sprites[s.ID] = s
	c.bytes += len(s.Pixels)
	return s
}

// Len returns the number of cached sprites.
func (c *Cache) Len() int {
	return len(c.sprites)
}

// Bytes returns the total size of the cached pixel buffers.
func (c *Cache) Bytes() int {
	return c.bytes
}

// Clear evicts every sprite and resets the stats.
func (c *Cache) Clear() {
	c.sprites = make(map[uint32]*Sprite)
	c.bytes = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
