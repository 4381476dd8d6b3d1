package sprite

import "testing"

func TestCacheInsertIsIdempotent(t *testing.T) {
	c := NewCache()
	first := &Sprite{ID: 1, Width: 2, Height: 2, Pixels: make([]byte, 16)}
	second := &Sprite{ID: 1, Width: 2, Height: 2, Pixels: make([]byte, 16)}

	if got := c.Insert(first); got != first {
		t.Error("first insert should return the inserted sprite")
	}
	if got := c.Insert(second); got != first {
		t.Error("second insert should return the cached sprite")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cached sprite, got %d", c.Len())
	}
	if c.Bytes() != 16 {
		t.Errorf("expected 16 cached bytes, got %d", c.Bytes())
	}
}

func TestCacheStats(t *testing.T) {
	c := NewCache()
	c.Insert(&Sprite{ID: 5, Width: 1, Height: 1, Pixels: make([]byte, 4)})

	if _, ok := c.Get(5); !ok {
		t.Error("expected hit for id 5")
	}
	if _, ok := c.Get(6); ok {
		t.Error("expected miss for id 6")
	}
	if !c.Contains(5) || c.Contains(6) {
		t.Error("Contains disagrees with Get")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit 1 miss, got %d/%d", hits, misses)
	}

	c.Clear()
	if c.Len() != 0 || c.Bytes() != 0 {
		t.Errorf("expected empty cache, got %d sprites %d bytes", c.Len(), c.Bytes())
	}
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("expected stats reset, got %d/%d", hits, misses)
	}
}
