// Package appearance defines the authoring and compiled models of visual
// appearances, and the binary index format shared by the compiler and the
// loader.
package appearance

import "sort"

// Offset is the render offset of an appearance in pixels.
type Offset struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// Manifest is the authoring model read from appearances.json/yaml.
type Manifest struct {
	Version     uint32
	Appearances []Appearance
}

// Appearance is one authored creature, item or effect.
type Appearance struct {
	ID          uint32
	Name        string
	Offset      Offset
	Size        uint32 // nominal square sprite size in pixels
	FrameGroups []FrameGroup
}

// FrameGroup is a named set of directional animations cut from one
// spritesheet.
type FrameGroup struct {
	Name        string
	Spritesheet string
	Orientation Orientation
	Animations  []AnimationEntry // manifest order
}

// AnimationEntry binds an animation to its direction key.
type AnimationEntry struct {
	Key       DirectionKey
	Animation AnimationSpec
}

// AnimationSpec describes how many frames to cut and how to play them.
type AnimationSpec struct {
	FrameCount uint32
	Duration   *uint32 // milliseconds; nil means static
	Looped     *bool   // nil means true
}

// DurationOrZero returns the duration, or 0 for a static animation.
func (a AnimationSpec) DurationOrZero() uint32 {
	if a.Duration == nil {
		return 0
	}
	return *a.Duration
}

// IsLooped returns the loop flag, defaulting to true.
func (a AnimationSpec) IsLooped() bool {
	if a.Looped == nil {
		return true
	}
	return *a.Looped
}

// Keys returns the direction keys of the group in manifest order.
func (g *FrameGroup) Keys() []DirectionKey {
	keys := make([]DirectionKey, len(g.Animations))
	for i, e := range g.Animations {
		keys[i] = e.Key
	}
	return keys
}

// Database is the compiled appearance set as read back from an index file.
type Database struct {
	Version     uint32
	Appearances map[uint32]*CompiledAppearance
}

// CompiledAppearance is an appearance whose animations reference sprite ids.
type CompiledAppearance struct {
	ID          uint32
	Name        string
	Offset      Offset
	Size        uint32
	FrameGroups []*CompiledFrameGroup
}

// CompiledFrameGroup holds one animation per direction key. Order keeps the
// keys in the order they were serialized.
type CompiledFrameGroup struct {
	Name       string
	Animations map[DirectionKey]*CompiledAnimation
	Order      []DirectionKey
}

// CompiledAnimation is a playable sequence of sprite ids.
type CompiledAnimation struct {
	SpriteIDs []uint32
	Duration  uint32 // 0 = static
	Looped    bool
}

// NewDatabase creates an empty database.
func NewDatabase(version uint32) *Database {
	return &Database{
		Version:     version,
		Appearances: make(map[uint32]*CompiledAppearance),
	}
}

// Add inserts or replaces an appearance.
func (db *Database) Add(a *CompiledAppearance) {
	db.Appearances[a.ID] = a
}

// Get returns the appearance with the given id.
func (db *Database) Get(id uint32) (*CompiledAppearance, bool) {
	a, ok := db.Appearances[id]
	return a, ok
}

// Count returns the number of appearances.
func (db *Database) Count() int {
	return len(db.Appearances)
}

// All returns every appearance sorted by id.
func (db *Database) All() []*CompiledAppearance {
	all := make([]*CompiledAppearance, 0, len(db.Appearances))
	for _, a := range db.Appearances {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// SpriteIDs returns every sprite id referenced by the database, ascending
// and without duplicates.
func (db *Database) SpriteIDs() []uint32 {
	seen := make(map[uint32]struct{})
	for _, a := range db.Appearances {
		for _, id := range a.SpriteIDs() {
			seen[id] = struct{}{}
		}
	}
	return sortedIDs(seen)
}

// SpriteIDs returns the sprite ids referenced by this appearance, ascending
// and without duplicates.
func (a *CompiledAppearance) SpriteIDs() []uint32 {
	seen := make(map[uint32]struct{})
	for _, fg := range a.FrameGroups {
		for _, anim := range fg.Animations {
			for _, id := range anim.SpriteIDs {
				seen[id] = struct{}{}
			}
		}
	}
	return sortedIDs(seen)
}

// FrameGroup finds a frame group by name.
func (a *CompiledAppearance) FrameGroup(name string) (*CompiledFrameGroup, bool) {
	for _, fg := range a.FrameGroups {
		if fg.Name == name {
			return fg, true
		}
	}
	return nil, false
}

// FrameGroupNames returns the frame group names in serialized order.
func (a *CompiledAppearance) FrameGroupNames() []string {
	names := make([]string, len(a.FrameGroups))
	for i, fg := range a.FrameGroups {
		names[i] = fg.Name
	}
	return names
}

// Animation returns the animation for key.
func (g *CompiledFrameGroup) Animation(key DirectionKey) (*CompiledAnimation, bool) {
	anim, ok := g.Animations[key]
	return anim, ok
}

// AnimationOrDefault returns the animation for key, falling back to the
// no-direction animation.
func (g *CompiledFrameGroup) AnimationOrDefault(key DirectionKey) (*CompiledAnimation, bool) {
	if anim, ok := g.Animations[key]; ok {
		return anim, true
	}
	anim, ok := g.Animations[NoDirection()]
	return anim, ok
}

func sortedIDs(set map[uint32]struct{}) []uint32 {
	ids := make([]uint32, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
