package appearance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest documents are YAML; JSON manifests parse as well since yaml.v3
// accepts JSON syntax.

type manifestDoc struct {
	Version     uint32          `yaml:"version"`
	Appearances []appearanceDoc `yaml:"appearances"`
}

type appearanceDoc struct {
	ID          uint32          `yaml:"id"`
	Name        string          `yaml:"name"`
	Offset      Offset          `yaml:"offset"`
	Size        uint32          `yaml:"size"`
	FrameGroups []frameGroupDoc `yaml:"framegroups"`
}

type frameGroupDoc struct {
	Name        string    `yaml:"name"`
	Spritesheet string    `yaml:"spritesheet"`
	Orientation string    `yaml:"orientation"`
	Animations  yaml.Node `yaml:"animations"`
}

type animationDoc struct {
	FrameCount *uint32 `yaml:"frame_count"`
	Duration   *uint32 `yaml:"duration"`
	Looped     *bool   `yaml:"looped"`
}

// ParseManifest parses a manifest document from raw bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}

	m := &Manifest{
		Version:     doc.Version,
		Appearances: make([]Appearance, 0, len(doc.Appearances)),
	}
	for i, ad := range doc.Appearances {
		app := Appearance{
			ID:          ad.ID,
			Name:        ad.Name,
			Offset:      ad.Offset,
			Size:        ad.Size,
			FrameGroups: make([]FrameGroup, 0, len(ad.FrameGroups)),
		}
		for j, fd := range ad.FrameGroups {
			fg, err := parseFrameGroupDoc(fd)
			if err != nil {
				return nil, fmt.Errorf("appearance %d (%q) frame group %d: %w", i, ad.Name, j, err)
			}
			app.FrameGroups = append(app.FrameGroups, fg)
		}
		m.Appearances = append(m.Appearances, app)
	}
	return m, nil
}

// ParseManifestFile parses a manifest from disk.
func ParseManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading manifest: %w", ErrIO, err)
	}
	return ParseManifest(data)
}

func parseFrameGroupDoc(fd frameGroupDoc) (FrameGroup, error) {
	orientation, err := ParseOrientation(fd.Orientation)
	if err != nil {
		return FrameGroup{}, err
	}
	fg := FrameGroup{
		Name:        fd.Name,
		Spritesheet: fd.Spritesheet,
		Orientation: orientation,
	}

	node := &fd.Animations
	if node.Kind == 0 {
		return fg, nil
	}
	if node.Kind != yaml.MappingNode {
		return FrameGroup{}, fmt.Errorf("%w: line %d: animations must be a mapping", ErrManifestParse, node.Line)
	}

	seen := make(map[DirectionKey]bool)
	for k := 0; k+1 < len(node.Content); k += 2 {
		keyNode, valueNode := node.Content[k], node.Content[k+1]
		key, err := ParseDirectionKey(keyNode.Value)
		if err != nil {
			return FrameGroup{}, fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
		if seen[key] {
			return FrameGroup{}, fmt.Errorf("%w: line %d: duplicate direction %s", ErrInvalidData, keyNode.Line, key)
		}
		seen[key] = true

		var ad animationDoc
		if err := valueNode.Decode(&ad); err != nil {
			return FrameGroup{}, fmt.Errorf("%w: line %d: %v", ErrManifestParse, valueNode.Line, err)
		}
		spec := AnimationSpec{
			FrameCount: 1,
			Duration:   ad.Duration,
			Looped:     ad.Looped,
		}
		if ad.FrameCount != nil {
			spec.FrameCount = *ad.FrameCount
		}
		fg.Animations = append(fg.Animations, AnimationEntry{Key: key, Animation: spec})
	}
	return fg, nil
}
