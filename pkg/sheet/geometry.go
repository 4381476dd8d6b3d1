// Package sheet slices spritesheets into square sprite cells.
//
// A sheet holds frameCount frames for each of the directions present in a
// frame group. Vertical sheets put frames in columns and directions in rows;
// Horizontal sheets put directions in columns and frames in rows. A frame
// group without directions uses a direction count of 0, which is laid out
// like a single direction.
package sheet

import (
	"image"
	"sort"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// ExpectedSize returns the pixel size a sheet must have.
func ExpectedSize(spriteSize, frameCount, directionCount uint32, o appearance.Orientation) (width, height uint32) {
	dirs := max(directionCount, 1)
	if o == appearance.Horizontal {
		return spriteSize * dirs, spriteSize * frameCount
	}
	return spriteSize * frameCount, spriteSize * dirs
}

// CellRect returns the pixel rectangle of one (frame, direction) cell.
func CellRect(frame, directionIndex, spriteSize uint32, o appearance.Orientation) image.Rectangle {
	var x, y uint32
	if o == appearance.Horizontal {
		x, y = directionIndex*spriteSize, frame*spriteSize
	} else {
		x, y = frame*spriteSize, directionIndex*spriteSize
	}
	return image.Rect(int(x), int(y), int(x+spriteSize), int(y+spriteSize))
}

// PresentDirections returns the directions keyed in a frame group, sorted
// by direction code. The no-direction key is skipped.
func PresentDirections(keys []appearance.DirectionKey) []appearance.Direction {
	dirs := make([]appearance.Direction, 0, len(keys))
	for _, k := range keys {
		if d, ok := k.Direction(); ok {
			dirs = append(dirs, d)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })
	return dirs
}

// DirectionIndex returns the rank of d among the sorted present directions.
// This is the row (Vertical) or column (Horizontal) of d on the sheet, not
// its direction code.
func DirectionIndex(d appearance.Direction, present []appearance.Direction) (int, bool) {
	for i, p := range present {
		if p == d {
			return i, true
		}
	}
	return 0, false
}

// KeyIndex is DirectionIndex for a direction key; the no-direction key is
// always index 0.
func KeyIndex(key appearance.DirectionKey, present []appearance.Direction) (int, bool) {
	d, ok := key.Direction()
	if !ok {
		return 0, true
	}
	return DirectionIndex(d, present)
}

// SliceIndices returns the flat cell positions (as ordered by Cells) that
// belong to the direction of the given rank.
func SliceIndices(rank int, frameCount, directionCount uint32, o appearance.Orientation) []int {
	dirs := int(max(directionCount, 1))
	frames := int(frameCount)
	out := make([]int, frames)
	if o == appearance.Horizontal {
		for f := 0; f < frames; f++ {
			out[f] = f*dirs + rank
		}
		return out
	}
	for f := 0; f < frames; f++ {
		out[f] = rank*frames + f
	}
	return out
}

// Cell identifies one sprite on a sheet.
type Cell struct {
	Frame     uint32
	Direction uint32 // rank among present directions
}

// Cells enumerates every cell of a sheet in slicing order: frame-major for
// Horizontal sheets, direction-major for Vertical sheets. Position k in the
// result is the flat index SliceIndices refers to.
func Cells(frameCount, directionCount uint32, o appearance.Orientation) []Cell {
	dirs := max(directionCount, 1)
	cells := make([]Cell, 0, int(frameCount)*int(dirs))
	if o == appearance.Horizontal {
		for f := uint32(0); f < frameCount; f++ {
			for d := uint32(0); d < dirs; d++ {
				cells = append(cells, Cell{Frame: f, Direction: d})
			}
		}
		return cells
	}
	for d := uint32(0); d < dirs; d++ {
		for f := uint32(0); f < frameCount; f++ {
			cells = append(cells, Cell{Frame: f, Direction: d})
		}
	}
	return cells
}
