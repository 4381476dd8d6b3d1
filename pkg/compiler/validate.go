package compiler

import (
	"fmt"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sprite"
)

// validateManifest checks the schema rules that slicing depends on, before
// any file is written.
func validateManifest(m *appearance.Manifest) error {
	if m == nil {
		return fmt.Errorf("%w: nil manifest", appearance.ErrInvalidData)
	}
	ids := make(map[uint32]bool, len(m.Appearances))
	for i := range m.Appearances {
		app := &m.Appearances[i]
		if ids[app.ID] {
			return fmt.Errorf("%w: duplicate appearance id %d", appearance.ErrInvalidData, app.ID)
		}
		ids[app.ID] = true

		if app.Size == 0 {
			return fmt.Errorf("%w: appearance %d (%s) has size 0", appearance.ErrInvalidData, app.ID, app.Name)
		}
		if uint64(app.Size)*uint64(app.Size)*4 > sprite.MaxPixelBytes {
			return fmt.Errorf("%w: appearance %d (%s) sprite size %d is too large", appearance.ErrInvalidData, app.ID, app.Name, app.Size)
		}
		for j := range app.FrameGroups {
			if err := validateFrameGroup(&app.FrameGroups[j]); err != nil {
				return fmt.Errorf("appearance %d (%s): %w", app.ID, app.Name, err)
			}
		}
	}
	return nil
}

func validateFrameGroup(fg *appearance.FrameGroup) error {
	if len(fg.Animations) == 0 {
		return fmt.Errorf("%w: frame group %q has no animations", appearance.ErrInvalidData, fg.Name)
	}
	if !fg.Orientation.Valid() {
		return fmt.Errorf("%w: frame group %q: %s", appearance.ErrInvalidData, fg.Name, fg.Orientation)
	}

	frames := fg.Animations[0].Animation.FrameCount
	seen := make(map[appearance.DirectionKey]bool, len(fg.Animations))
	var directional, none int
	for _, entry := range fg.Animations {
		if seen[entry.Key] {
			return fmt.Errorf("%w: frame group %q repeats direction %s", appearance.ErrInvalidData, fg.Name, entry.Key)
		}
		seen[entry.Key] = true

		if d, ok := entry.Key.Direction(); ok {
			if !d.Valid() {
				return fmt.Errorf("%w: frame group %q: %s", appearance.ErrInvalidData, fg.Name, d)
			}
			directional++
		} else {
			none++
		}

		if entry.Animation.FrameCount == 0 {
			return fmt.Errorf("%w: frame group %q animation %s has no frames", appearance.ErrInvalidData, fg.Name, entry.Key)
		}
		if entry.Animation.FrameCount != frames {
			return fmt.Errorf("%w: frame group %q mixes frame counts %d and %d on one spritesheet",
				appearance.ErrInvalidData, fg.Name, frames, entry.Animation.FrameCount)
		}
	}
	if none > 0 && directional > 0 {
		return fmt.Errorf("%w: frame group %q mixes directional and direction-less animations", appearance.ErrInvalidData, fg.Name)
	}
	return nil
}
