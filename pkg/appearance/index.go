package appearance

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"unicode/utf8"
)

// IndexFileName is the name of the index file inside a compiled package.
const IndexFileName = "appearances.dat"

// IndexWriter serializes compiled appearances into the little-endian index
// layout. The header is written on creation; appearances are appended as
// the compiler finishes them.
type IndexWriter struct {
	buf   []byte
	count uint32
	want  uint32
}

// NewIndexWriter starts an index for appearanceCount appearances.
func NewIndexWriter(version uint32, appearanceCount int) *IndexWriter {
	w := &IndexWriter{want: uint32(appearanceCount)}
	w.putU32(version)
	w.putU32(uint32(appearanceCount))
	return w
}

// WriteAppearance appends one appearance record.
func (w *IndexWriter) WriteAppearance(a *CompiledAppearance) error {
	if w.count >= w.want {
		return fmt.Errorf("%w: index header declares %d appearances", ErrInvalidData, w.want)
	}
	w.putU32(a.ID)
	if err := w.putString(a.Name); err != nil {
		return err
	}
	w.putI32(a.Offset.X)
	w.putI32(a.Offset.Y)
	w.putU32(a.Size)
	w.putU32(uint32(len(a.FrameGroups)))

	for _, fg := range a.FrameGroups {
		if err := w.putString(fg.Name); err != nil {
			return err
		}
		keys := fg.keysInOrder()
		w.putU32(uint32(len(keys)))
		for _, key := range keys {
			anim := fg.Animations[key]
			if anim == nil {
				return fmt.Errorf("%w: frame group %q has no animation for %s", ErrInvalidData, fg.Name, key)
			}
			if d, ok := key.Direction(); ok {
				if !d.Valid() {
					return fmt.Errorf("%w: frame group %q: %s", ErrInvalidData, fg.Name, d)
				}
				w.buf = append(w.buf, 1, byte(d))
			} else {
				w.buf = append(w.buf, 0)
			}
			w.putU32(uint32(len(anim.SpriteIDs)))
			for _, id := range anim.SpriteIDs {
				w.putU32(id)
			}
			w.putU32(anim.Duration)
			if anim.Looped {
				w.buf = append(w.buf, 1)
			} else {
				w.buf = append(w.buf, 0)
			}
		}
	}
	w.count++
	return nil
}

// Len returns the number of bytes written so far.
func (w *IndexWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the serialized index. It fails if fewer appearances were
// written than the header declares.
func (w *IndexWriter) Bytes() ([]byte, error) {
	if w.count != w.want {
		return nil, fmt.Errorf("%w: wrote %d of %d appearances", ErrInvalidData, w.count, w.want)
	}
	return w.buf, nil
}

func (w *IndexWriter) putU32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *IndexWriter) putI32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *IndexWriter) putString(s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("%w: string of %d bytes", ErrInvalidData, len(s))
	}
	w.putU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

// keysInOrder returns Order when it covers the map, otherwise the keys sorted
// with the no-direction key first and directions by code.
func (g *CompiledFrameGroup) keysInOrder() []DirectionKey {
	if len(g.Order) == len(g.Animations) {
		return g.Order
	}
	keys := make([]DirectionKey, 0, len(g.Animations))
	for k := range g.Animations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		di, oki := keys[i].Direction()
		dj, okj := keys[j].Direction()
		if oki != okj {
			return !oki
		}
		return di < dj
	})
	return keys
}

// IndexOptions controls how tag bytes are decoded.
type IndexOptions struct {
	// LenientTags decodes out-of-range direction codes as North and any
	// non-zero hasDirection byte as true instead of failing with
	// ErrCorruptIndex.
	LenientTags bool
}

// ParseIndex parses an index file from raw bytes.
func ParseIndex(data []byte, opts IndexOptions) (*Database, error) {
	r := bytes.NewReader(data)

	var header struct {
		Version         uint32
		AppearanceCount uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncated)
	}

	db := NewDatabase(header.Version)
	for i := uint32(0); i < header.AppearanceCount; i++ {
		app, err := parseAppearance(r, opts)
		if err != nil {
			return nil, fmt.Errorf("parsing appearance %d: %w", i, err)
		}
		if _, dup := db.Appearances[app.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate appearance id %d", ErrCorruptIndex, app.ID)
		}
		db.Add(app)
	}
	return db, nil
}

// ParseIndexFile parses the index file at path.
func ParseIndexFile(path string, opts IndexOptions) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &AssetNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("%w: reading index file: %w", ErrIO, err)
	}
	return ParseIndex(data, opts)
}

func parseAppearance(r *bytes.Reader, opts IndexOptions) (*CompiledAppearance, error) {
	app := &CompiledAppearance{}

	if err := binary.Read(r, binary.LittleEndian, &app.ID); err != nil {
		return nil, fmt.Errorf("%w: reading id", ErrTruncated)
	}
	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("reading name: %w", err)
	}
	app.Name = name

	var fixed struct {
		OffsetX, OffsetY int32
		Size             uint32
		FrameGroupCount  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &fixed); err != nil {
		return nil, fmt.Errorf("%w: reading appearance %d fields", ErrTruncated, app.ID)
	}
	app.Offset = Offset{X: fixed.OffsetX, Y: fixed.OffsetY}
	app.Size = fixed.Size

	app.FrameGroups = make([]*CompiledFrameGroup, 0, capHint(fixed.FrameGroupCount, r.Len(), 8))
	for i := uint32(0); i < fixed.FrameGroupCount; i++ {
		fg, err := parseFrameGroup(r, opts)
		if err != nil {
			return nil, fmt.Errorf("frame group %d: %w", i, err)
		}
		app.FrameGroups = append(app.FrameGroups, fg)
	}
	return app, nil
}

func parseFrameGroup(r *bytes.Reader, opts IndexOptions) (*CompiledFrameGroup, error) {
	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("reading name: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading animation count", ErrTruncated)
	}

	fg := &CompiledFrameGroup{
		Name:       name,
		Animations: make(map[DirectionKey]*CompiledAnimation),
		Order:      make([]DirectionKey, 0, capHint(count, r.Len(), 10)),
	}
	for i := uint32(0); i < count; i++ {
		key, anim, err := parseAnimation(r, opts)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		if _, dup := fg.Animations[key]; dup {
			return nil, fmt.Errorf("%w: frame group %q repeats direction %s", ErrCorruptIndex, name, key)
		}
		fg.Animations[key] = anim
		fg.Order = append(fg.Order, key)
	}
	return fg, nil
}

func parseAnimation(r *bytes.Reader, opts IndexOptions) (DirectionKey, *CompiledAnimation, error) {
	hasDirection, err := r.ReadByte()
	if err != nil {
		return DirectionKey{}, nil, fmt.Errorf("%w: reading direction flag", ErrTruncated)
	}
	if hasDirection > 1 && !opts.LenientTags {
		return DirectionKey{}, nil, fmt.Errorf("%w: direction flag %d", ErrCorruptIndex, hasDirection)
	}

	key := NoDirection()
	if hasDirection != 0 {
		code, err := r.ReadByte()
		if err != nil {
			return DirectionKey{}, nil, fmt.Errorf("%w: reading direction code", ErrTruncated)
		}
		d := Direction(code)
		if !d.Valid() {
			if !opts.LenientTags {
				return DirectionKey{}, nil, fmt.Errorf("%w: direction code %d", ErrCorruptIndex, code)
			}
			d = North
		}
		key = Directional(d)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return DirectionKey{}, nil, fmt.Errorf("%w: reading sprite id count", ErrTruncated)
	}
	if uint64(count)*4 > uint64(r.Len()) {
		return DirectionKey{}, nil, fmt.Errorf("%w: %d sprite ids declared, %d bytes left", ErrTruncated, count, r.Len())
	}
	anim := &CompiledAnimation{SpriteIDs: make([]uint32, count)}
	if err := binary.Read(r, binary.LittleEndian, anim.SpriteIDs); err != nil {
		return DirectionKey{}, nil, fmt.Errorf("%w: reading sprite ids", ErrTruncated)
	}
	if err := binary.Read(r, binary.LittleEndian, &anim.Duration); err != nil {
		return DirectionKey{}, nil, fmt.Errorf("%w: reading duration", ErrTruncated)
	}
	looped, err := r.ReadByte()
	if err != nil {
		return DirectionKey{}, nil, fmt.Errorf("%w: reading looped flag", ErrTruncated)
	}
	anim.Looped = looped != 0
	return key, anim, nil
}

// readString reads a u32 length followed by that many UTF-8 bytes.
func readString(r *bytes.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", fmt.Errorf("%w: reading string length", ErrTruncated)
	}
	if uint64(length) > uint64(r.Len()) {
		return "", fmt.Errorf("%w: string of %d bytes, %d left", ErrTruncated, length, r.Len())
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: reading string", ErrTruncated)
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

// capHint bounds a declared element count by what the remaining bytes could
// possibly hold, so corrupt counts do not trigger huge allocations.
func capHint(declared uint32, remaining, minSize int) int {
	limit := remaining / minSize
	if int64(declared) < int64(limit) {
		return int(declared)
	}
	return limit
}
