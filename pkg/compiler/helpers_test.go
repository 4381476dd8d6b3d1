package compiler

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// cellColor is the fill of the cell at column col and row row.
func cellColor(col, row int) color.NRGBA {
	return color.NRGBA{R: uint8(col), G: uint8(row), B: 0xAA, A: 255}
}

// writeSheet renders a cols x rows grid of size-pixel cells, each filled
// with cellColor, and returns its path.
func writeSheet(t *testing.T, path string, cols, rows, size int) string {
	t.Helper()
	return writeImage(t, path, cols*size, rows*size, func(x, y int) color.NRGBA {
		return cellColor(x/size, y/size)
	})
}

func writeImage(t *testing.T, path string, w, h int, fill func(x, y int) color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill(x, y))
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func anim(frames uint32) appearance.AnimationSpec {
	return appearance.AnimationSpec{FrameCount: frames}
}

func entry(d appearance.Direction, frames uint32) appearance.AnimationEntry {
	return appearance.AnimationEntry{Key: appearance.Directional(d), Animation: anim(frames)}
}

func still(frames uint32) appearance.AnimationEntry {
	return appearance.AnimationEntry{Key: appearance.NoDirection(), Animation: anim(frames)}
}

// solidPixels returns size*size RGBA bytes of one color.
func solidPixels(c color.NRGBA, size int) []byte {
	out := make([]byte, 0, size*size*4)
	for i := 0; i < size*size; i++ {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}
