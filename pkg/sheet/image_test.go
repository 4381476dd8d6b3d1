package sheet

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// gradient returns an image where every pixel encodes its own coordinates.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 128})
		}
	}
	return img
}

func TestCrop(t *testing.T) {
	img := gradient(8, 4)
	pixels := Crop(img, image.Rect(2, 1, 5, 3))

	if len(pixels) != 3*2*4 {
		t.Fatalf("expected %d bytes, got %d", 3*2*4, len(pixels))
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			p := pixels[(y*3+x)*4:]
			if p[0] != uint8(x+2) || p[1] != uint8(y+1) || p[2] != 7 || p[3] != 128 {
				t.Errorf("pixel (%d,%d) = %v", x, y, p[:4])
			}
		}
	}
}

func TestCropOutsideIsTransparent(t *testing.T) {
	img := gradient(4, 4)
	pixels := Crop(img, image.Rect(2, 2, 6, 6))
	// (3,3) in image space is inside; (4,4) is outside.
	inside := pixels[(1*4+1)*4:]
	if inside[3] != 128 {
		t.Errorf("expected opaque-ish pixel inside bounds, got %v", inside[:4])
	}
	outside := pixels[(3*4+3)*4:]
	if !bytes.Equal(outside[:4], []byte{0, 0, 0, 0}) {
		t.Errorf("expected transparent pixel outside bounds, got %v", outside[:4])
	}
}

func TestDecodePNGKeepsStraightAlpha(t *testing.T) {
	src := gradient(4, 2)
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeBytes(buf.Bytes(), ".PNG")
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Error("decoded pixels differ from source")
	}
}

func TestDecodeConvertsPalettedImages(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	})
	pal.SetColorIndex(1, 0, 1)
	var buf bytes.Buffer
	if err := png.Encode(&buf, pal); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeBytes(buf.Bytes(), ".png")
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	want := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	if !bytes.Equal(img.Pix, want) {
		t.Errorf("pixels = %v, want %v", img.Pix, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	var notFound *appearance.AssetNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected AssetNotFoundError, got %v", err)
	}

	if _, err := DecodeBytes([]byte("not a png"), ".png"); !errors.Is(err, appearance.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode for garbage, got %v", err)
	}
	if _, err := DecodeBytes(nil, ".gif"); !errors.Is(err, appearance.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode for unsupported format, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(path); !errors.Is(err, appearance.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode for truncated file, got %v", err)
	}
}

func TestToImage(t *testing.T) {
	pixels := Crop(gradient(4, 4), image.Rect(0, 0, 2, 2))
	img := ToImage(2, 2, pixels)
	if c := img.NRGBAAt(1, 1); c.R != 1 || c.G != 1 || c.A != 128 {
		t.Errorf("pixel (1,1) = %v", c)
	}
}
