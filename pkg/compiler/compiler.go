// Package compiler turns an appearance manifest into a compiled package: an
// index file plus one compressed record per sprite sliced from the
// manifest's spritesheets.
package compiler

import (
	"crypto/sha256"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sheet"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sprite"
)

// Stats summarizes a successful compilation.
type Stats struct {
	Appearances  int
	Sprites      int // sprite files written
	Deduplicated int // slices that reused an existing sprite id
	IndexBytes   int
	SpriteBytes  int // compressed pixel bytes across all sprite files
}

// Compiler compiles manifests. A Compiler holds only configuration; every
// Compile call is independent.
type Compiler struct {
	log       *zap.Logger
	dedup     DedupStrategy
	atomic    bool
	assetRoot string
}

// New creates a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		log:       zap.NewNop(),
		dedup:     DedupNone,
		atomic:    true,
		assetRoot: DefaultAssetRootPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles m into outputDir using a Compiler built from opts.
func Compile(m *appearance.Manifest, basePath, outputDir string, opts ...Option) (*Stats, error) {
	return New(opts...).Compile(m, basePath, outputDir)
}

// run is the state of one compilation.
type run struct {
	*Compiler
	basePath string
	dir      string
	ids      *IDAllocator
	index    *appearance.IndexWriter
	seen     map[contentKey]uint32
	stats    Stats
}

type contentKey struct {
	width, height uint32
	sum           [sha256.Size]byte
}

// slice is one cropped and compressed sheet cell.
type slice struct {
	record sprite.Record
	key    contentKey
}

// Compile compiles m into outputDir. Spritesheet paths starting with the
// asset root prefix resolve against basePath.
func (c *Compiler) Compile(m *appearance.Manifest, basePath, outputDir string) (stats *Stats, err error) {
	if err := validateManifest(m); err != nil {
		return nil, err
	}

	dir, cleanup, err := c.prepareOutput(outputDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, cleanup())
		}
	}()

	r := &run{
		Compiler: c,
		basePath: basePath,
		dir:      dir,
		ids:      NewIDAllocator(),
		index:    appearance.NewIndexWriter(m.Version, len(m.Appearances)),
		seen:     make(map[contentKey]uint32),
	}
	for i := range m.Appearances {
		if err := r.compileAppearance(&m.Appearances[i]); err != nil {
			return nil, err
		}
	}

	data, err := r.index.Bytes()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, appearance.IndexFileName), data, 0644); err != nil {
		return nil, fmt.Errorf("%w: writing index: %w", appearance.ErrIO, err)
	}
	r.stats.Appearances = len(m.Appearances)
	r.stats.IndexBytes = len(data)

	if c.atomic {
		if err := publish(dir, outputDir); err != nil {
			return nil, err
		}
	}

	c.log.Info("compiled appearances",
		zap.Int("appearances", r.stats.Appearances),
		zap.Int("sprites", r.stats.Sprites),
		zap.Int("deduplicated", r.stats.Deduplicated),
		zap.String("output", outputDir))
	return &r.stats, nil
}

// prepareOutput returns the directory to write into and a cleanup function
// for failed runs.
func (c *Compiler) prepareOutput(outputDir string) (string, func() error, error) {
	if !c.atomic {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", nil, fmt.Errorf("%w: creating output directory: %w", appearance.ErrIO, err)
		}
		c.log.Warn("atomic publish disabled; a failed run leaves partial output", zap.String("output", outputDir))
		return outputDir, func() error { return nil }, nil
	}

	parent := filepath.Dir(filepath.Clean(outputDir))
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", nil, fmt.Errorf("%w: creating output parent: %w", appearance.ErrIO, err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(outputDir)+".staging-")
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating staging directory: %w", appearance.ErrIO, err)
	}
	c.log.Debug("staging compilation", zap.String("staging", staging))
	return staging, func() error { return os.RemoveAll(staging) }, nil
}

// publish moves a finished staging directory to outputDir, replacing any
// previous package there.
func publish(staging, outputDir string) error {
	if err := os.Chmod(staging, 0755); err != nil {
		return fmt.Errorf("%w: %w", appearance.ErrIO, err)
	}

	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.Rename(staging, outputDir); err != nil {
			return fmt.Errorf("%w: publishing package: %w", appearance.ErrIO, err)
		}
		return nil
	}

	previous := staging + ".previous"
	if err := os.Rename(outputDir, previous); err != nil {
		return fmt.Errorf("%w: moving previous package aside: %w", appearance.ErrIO, err)
	}
	if err := os.Rename(staging, outputDir); err != nil {
		restoreErr := os.Rename(previous, outputDir)
		return multierr.Append(fmt.Errorf("%w: publishing package: %w", appearance.ErrIO, err), restoreErr)
	}
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("%w: removing previous package: %w", appearance.ErrIO, err)
	}
	return nil
}

func (r *run) compileAppearance(app *appearance.Appearance) error {
	compiled := &appearance.CompiledAppearance{
		ID:          app.ID,
		Name:        app.Name,
		Offset:      app.Offset,
		Size:        app.Size,
		FrameGroups: make([]*appearance.CompiledFrameGroup, 0, len(app.FrameGroups)),
	}
	for i := range app.FrameGroups {
		fg := &app.FrameGroups[i]
		cfg, err := r.compileFrameGroup(app, fg)
		if err != nil {
			return errors.Wrapf(err, "appearance %d (%s) frame group %q", app.ID, app.Name, fg.Name)
		}
		compiled.FrameGroups = append(compiled.FrameGroups, cfg)
	}
	return r.index.WriteAppearance(compiled)
}

func (r *run) compileFrameGroup(app *appearance.Appearance, fg *appearance.FrameGroup) (*appearance.CompiledFrameGroup, error) {
	frames := fg.Animations[0].Animation.FrameCount
	present := sheet.PresentDirections(fg.Keys())
	dirCount := uint32(len(present))

	path := ResolvePath(r.basePath, r.assetRoot, fg.Spritesheet)
	img, err := sheet.Decode(path)
	if err != nil {
		return nil, err
	}

	wantW, wantH := sheet.ExpectedSize(app.Size, frames, dirCount, fg.Orientation)
	gotW, gotH := img.Rect.Dx(), img.Rect.Dy()
	if uint32(gotW) != wantW || uint32(gotH) != wantH {
		return nil, &appearance.DimensionMismatchError{
			Appearance: app.Name,
			FrameGroup: fg.Name,
			Expected:   image.Pt(int(wantW), int(wantH)),
			Actual:     image.Pt(gotW, gotH),
		}
	}

	slices, err := r.sliceSheet(img, app.Size, frames, dirCount, fg.Orientation)
	if err != nil {
		return nil, err
	}

	out := &appearance.CompiledFrameGroup{
		Name:       fg.Name,
		Animations: make(map[appearance.DirectionKey]*appearance.CompiledAnimation, len(fg.Animations)),
		Order:      make([]appearance.DirectionKey, 0, len(fg.Animations)),
	}
	for _, entry := range fg.Animations {
		rank, _ := sheet.KeyIndex(entry.Key, present)
		positions := sheet.SliceIndices(rank, frames, dirCount, fg.Orientation)

		anim := &appearance.CompiledAnimation{
			SpriteIDs: make([]uint32, 0, len(positions)),
			Duration:  entry.Animation.DurationOrZero(),
			Looped:    entry.Animation.IsLooped(),
		}
		for _, pos := range positions {
			id, err := r.emit(slices[pos])
			if err != nil {
				return nil, err
			}
			anim.SpriteIDs = append(anim.SpriteIDs, id)
		}
		out.Animations[entry.Key] = anim
		out.Order = append(out.Order, entry.Key)
	}

	r.log.Debug("compiled frame group",
		zap.Uint32("appearance", app.ID),
		zap.String("frame_group", fg.Name),
		zap.String("spritesheet", path),
		zap.Stringer("orientation", fg.Orientation),
		zap.Uint32("frames", frames),
		zap.Uint32("directions", dirCount))
	return out, nil
}

// sliceSheet crops and compresses every cell of the sheet in Cells order.
func (r *run) sliceSheet(img *image.NRGBA, size, frames, dirCount uint32, o appearance.Orientation) ([]slice, error) {
	cells := sheet.Cells(frames, dirCount, o)
	slices := make([]slice, len(cells))
	for i, cell := range cells {
		pixels := sheet.Crop(img, sheet.CellRect(cell.Frame, cell.Direction, size, o))
		compressed, err := sprite.Compress(pixels)
		if err != nil {
			return nil, err
		}
		slices[i] = slice{
			record: sprite.Record{Width: size, Height: size, Compressed: compressed},
			key:    contentKey{width: size, height: size, sum: sha256.Sum256(pixels)},
		}
	}
	return slices, nil
}

// emit allocates an id for s and writes its record, or returns the id of an
// identical sprite when content deduplication is enabled.
func (r *run) emit(s slice) (uint32, error) {
	if r.dedup == DedupContent {
		if id, ok := r.seen[s.key]; ok {
			r.stats.Deduplicated++
			return id, nil
		}
	}
	id, err := r.ids.Next()
	if err != nil {
		return 0, err
	}
	if err := sprite.WriteFile(r.dir, id, s.record); err != nil {
		return 0, err
	}
	if r.dedup == DedupContent {
		r.seen[s.key] = id
	}
	r.stats.Sprites++
	r.stats.SpriteBytes += len(s.record.Compressed)
	return id, nil
}

// ResolvePath resolves a manifest spritesheet path. Relative paths that
// start with prefix are joined to basePath; anything else is used as given.
func ResolvePath(basePath, prefix, p string) string {
	slashed := filepath.ToSlash(p)
	if prefix != "" && !filepath.IsAbs(p) && strings.HasPrefix(slashed, prefix) {
		return filepath.Join(basePath, filepath.FromSlash(slashed))
	}
	return p
}
