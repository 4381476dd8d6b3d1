// Package sprite reads and writes per-sprite pixel records.
//
// Each sprite of a compiled package lives in its own file named after its id
// (00001.spr, 00002.spr, ...):
//
//	u32 width; u32 height; u32 compressedSize
//	byte[compressedSize] gzip stream of width*height*4 RGBA bytes
package sprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// FileExt is the extension of sprite record files.
const FileExt = ".spr"

const headerSize = 12

// MaxDimension bounds the width and height a record may declare.
const MaxDimension = 1 << 16

// Sprite is a decompressed sprite.
type Sprite struct {
	ID     uint32
	Width  uint32
	Height uint32
	Pixels []byte // RGBA, Width*Height*4 bytes
}

// Record is the on-disk form of a sprite.
type Record struct {
	Width      uint32
	Height     uint32
	Compressed []byte
}

// FileName returns the file name of sprite id, zero-padded to five digits.
func FileName(id uint32) string {
	return fmt.Sprintf("%05d%s", id, FileExt)
}

// Path returns the path of sprite id inside dir.
func Path(dir string, id uint32) string {
	return filepath.Join(dir, FileName(id))
}

// Encode writes r in record layout.
func (r Record) Encode(w io.Writer) error {
	hdr := make([]byte, headerSize, headerSize+len(r.Compressed))
	binary.LittleEndian.PutUint32(hdr[0:], r.Width)
	binary.LittleEndian.PutUint32(hdr[4:], r.Height)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(r.Compressed)))
	_, err := w.Write(append(hdr, r.Compressed...))
	return err
}

// Size returns the encoded size of r in bytes.
func (r Record) Size() int {
	return headerSize + len(r.Compressed)
}

// ParseRecord parses a sprite record from raw bytes.
func ParseRecord(data []byte) (Record, error) {
	if len(data) < headerSize {
		return Record{}, fmt.Errorf("%w: record of %d bytes is shorter than its header", appearance.ErrCorruptSprite, len(data))
	}
	rd := bytes.NewReader(data)
	var hdr struct {
		Width, Height, CompressedSize uint32
	}
	if err := binary.Read(rd, binary.LittleEndian, &hdr); err != nil {
		return Record{}, fmt.Errorf("%w: reading header", appearance.ErrCorruptSprite)
	}
	if uint64(hdr.CompressedSize) > uint64(rd.Len()) {
		return Record{}, fmt.Errorf("%w: compressed size %d exceeds %d remaining bytes",
			appearance.ErrCorruptSprite, hdr.CompressedSize, rd.Len())
	}
	return Record{
		Width:      hdr.Width,
		Height:     hdr.Height,
		Compressed: data[headerSize : headerSize+int(hdr.CompressedSize)],
	}, nil
}

// WriteFile stores r as the record file of sprite id inside dir.
func WriteFile(dir string, id uint32, r Record) error {
	var buf bytes.Buffer
	buf.Grow(r.Size())
	if err := r.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(Path(dir, id), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: writing sprite %d: %w", appearance.ErrIO, id, err)
	}
	return nil
}

// ReadFile reads and decompresses the record of sprite id inside dir.
func ReadFile(dir string, id uint32) (*Sprite, error) {
	path := Path(dir, id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &appearance.AssetNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("%w: reading sprite %d: %w", appearance.ErrIO, id, err)
	}
	rec, err := ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("sprite %d: %w", id, err)
	}
	return rec.Decode(id)
}

// Decode decompresses r into a Sprite with the given id.
func (r Record) Decode(id uint32) (*Sprite, error) {
	if r.Width > MaxDimension || r.Height > MaxDimension {
		return nil, fmt.Errorf("sprite %d: %w: dimensions %dx%d out of range", id, appearance.ErrCorruptSprite, r.Width, r.Height)
	}
	want := uint64(r.Width) * uint64(r.Height) * 4
	pixels, err := Decompress(r.Compressed, want)
	if err != nil {
		return nil, fmt.Errorf("sprite %d: %w", id, err)
	}
	return &Sprite{ID: id, Width: r.Width, Height: r.Height, Pixels: pixels}, nil
}
