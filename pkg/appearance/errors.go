package appearance

import (
	"errors"
	"fmt"
	"image"
)

// Error kinds shared by the compiler and the loader.
var (
	ErrIO                = errors.New("i/o error")
	ErrManifestParse     = errors.New("manifest parse error")
	ErrImageDecode       = errors.New("image decode error")
	ErrDimensionMismatch = errors.New("spritesheet dimension mismatch")
	ErrAssetNotFound     = errors.New("asset not found")
	ErrCorruptSprite     = errors.New("corrupt sprite")
	ErrCorruptIndex      = errors.New("corrupt index")
	ErrTruncated         = errors.New("truncated index data")
	ErrInvalidUTF8       = errors.New("invalid UTF-8 string")
	ErrInvalidData       = errors.New("invalid appearance data")
)

// DimensionMismatchError reports a spritesheet whose pixel size differs
// from the size implied by its frame group.
type DimensionMismatchError struct {
	Appearance string
	FrameGroup string
	Expected   image.Point
	Actual     image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("invalid spritesheet dimensions for appearance %q frame group %q: expected %dx%d, got %dx%d",
		e.Appearance, e.FrameGroup, e.Expected.X, e.Expected.Y, e.Actual.X, e.Actual.Y)
}

// Is reports ErrDimensionMismatch as the kind of this error.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// AssetNotFoundError names a sprite or spritesheet file that does not exist.
type AssetNotFoundError struct {
	Path string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAssetNotFound, e.Path)
}

// Is reports ErrAssetNotFound as the kind of this error.
func (e *AssetNotFoundError) Is(target error) bool {
	return target == ErrAssetNotFound
}
