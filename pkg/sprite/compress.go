package sprite

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// CompressionLevel is the gzip level used for every sprite. Changing it
// changes file sizes, never the decoded pixels.
const CompressionLevel = 6

// Compress gzips raw RGBA pixels.
func Compress(pixels []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, CompressionLevel)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(pixels); err != nil {
		return nil, fmt.Errorf("compressing pixels: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing pixels: %w", err)
	}
	return buf.Bytes(), nil
}

// MaxPixelBytes bounds the decompressed size of one sprite (a 4096x4096
// RGBA image).
const MaxPixelBytes = 4096 * 4096 * 4

// Decompress inflates a gzip stream that must hold exactly expectedLen bytes.
func Decompress(data []byte, expectedLen uint64) ([]byte, error) {
	if expectedLen > MaxPixelBytes {
		return nil, fmt.Errorf("%w: %d pixel bytes exceeds limit of %d", appearance.ErrCorruptSprite, expectedLen, MaxPixelBytes)
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appearance.ErrCorruptSprite, err)
	}
	defer zr.Close()

	pixels := make([]byte, expectedLen)
	if n, err := io.ReadFull(zr, pixels); err != nil {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d: %v", appearance.ErrCorruptSprite, n, expectedLen, err)
	}

	// The stream must end here; reading to EOF also verifies the checksum.
	var extra [1]byte
	switch n, err := io.ReadFull(zr, extra[:]); {
	case n > 0:
		return nil, fmt.Errorf("%w: stream holds more than %d bytes", appearance.ErrCorruptSprite, expectedLen)
	case err != io.EOF:
		return nil, fmt.Errorf("%w: %v", appearance.ErrCorruptSprite, err)
	}
	return pixels, nil
}
