package appearance

import (
	"fmt"
	"strings"
)

// Direction is one of the eight facing directions an animation can be
// authored for. The numeric value is the code stored in the index file and
// also defines the ordering of directions on a spritesheet.
type Direction uint8

// Direction codes.
const (
	North Direction = iota
	East
	South
	West
	NorthEast
	SouthEast
	SouthWest
	NorthWest
)

// DirectionCount is the number of valid direction codes.
const DirectionCount = 8

var directionNames = [DirectionCount]string{
	"north", "east", "south", "west",
	"northeast", "southeast", "southwest", "northwest",
}

// Valid reports whether d is one of the eight defined codes.
func (d Direction) Valid() bool {
	return d < DirectionCount
}

// String returns the lowercase manifest name of the direction.
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// ParseDirection converts a manifest name such as "north", "NorthEast" or
// "south_west" into a Direction.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(s)
	name = strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidData, s)
}

// DirectionKey is the key of an animation inside a frame group: either a
// concrete Direction or the explicit "no direction" variant. The zero value
// is the no-direction key.
type DirectionKey struct {
	dir Direction
	set bool
}

// NoDirection returns the key used by frame groups without directions.
func NoDirection() DirectionKey {
	return DirectionKey{}
}

// Directional returns the key for direction d.
func Directional(d Direction) DirectionKey {
	return DirectionKey{dir: d, set: true}
}

// Direction returns the direction and true, or false for the no-direction key.
func (k DirectionKey) Direction() (Direction, bool) {
	return k.dir, k.set
}

// IsNone reports whether k is the no-direction key.
func (k DirectionKey) IsNone() bool {
	return !k.set
}

func (k DirectionKey) String() string {
	if !k.set {
		return "none"
	}
	return k.dir.String()
}

// ParseDirectionKey accepts "null", "none" or an empty string for the
// no-direction key and any ParseDirection name otherwise.
func ParseDirectionKey(s string) (DirectionKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "none", "~":
		return NoDirection(), nil
	}
	d, err := ParseDirection(s)
	if err != nil {
		return DirectionKey{}, err
	}
	return Directional(d), nil
}

// Orientation is the tiling convention of a spritesheet.
type Orientation uint8

const (
	// Vertical sheets lay frames out along columns and directions along rows.
	Vertical Orientation = iota
	// Horizontal sheets lay directions out along columns and frames along rows.
	Horizontal
)

// Valid reports whether o is a defined orientation code.
func (o Orientation) Valid() bool {
	return o <= Horizontal
}

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("orientation(%d)", uint8(o))
	}
}

// ParseOrientation converts "vertical" or "horizontal" (any case). An empty
// string selects the default, Vertical.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	default:
		return 0, fmt.Errorf("%w: unknown orientation %q", ErrInvalidData, s)
	}
}
