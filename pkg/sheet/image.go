package sheet

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// Decoders are picked by extension rather than image.Decode sniffing: the
// tga package registers an empty magic string that would match any input.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Decode reads a spritesheet and returns it as non-premultiplied RGBA.
func Decode(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &appearance.AssetNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("%w: reading spritesheet %s: %w", appearance.ErrIO, path, err)
	}
	return DecodeBytes(data, filepath.Ext(path))
}

// DecodeBytes decodes an encoded image; ext selects the codec.
func DecodeBytes(data []byte, ext string) (*image.NRGBA, error) {
	decode, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image format %q", appearance.ErrImageDecode, ext)
	}
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appearance.ErrImageDecode, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to a zero-origin NRGBA image.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Crop copies rect out of img as tightly packed RGBA8 bytes,
// rect.Dx()*rect.Dy()*4 long. Pixels outside img are transparent.
func Crop(img *image.NRGBA, rect image.Rectangle) []byte {
	w, h := rect.Dx(), rect.Dy()
	out := make([]byte, w*h*4)
	clip := rect.Intersect(img.Rect)
	if clip.Empty() {
		return out
	}
	rowBytes := clip.Dx() * 4
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		src := img.PixOffset(clip.Min.X, y)
		dst := ((y-rect.Min.Y)*w + (clip.Min.X - rect.Min.X)) * 4
		copy(out[dst:dst+rowBytes], img.Pix[src:src+rowBytes])
	}
	return out
}

// ToImage wraps tightly packed RGBA8 pixels as an image.
func ToImage(width, height int, pixels []byte) *image.NRGBA {
	return &image.NRGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}
