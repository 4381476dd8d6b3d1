package compiler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
)

// DefaultAssetRootPrefix marks spritesheet paths that resolve against the
// base path passed to Compile.
const DefaultAssetRootPrefix = "assets/"

// DedupStrategy selects whether identical sprites share an id.
type DedupStrategy int

const (
	// DedupNone gives every slice a fresh id, even when its pixels match a
	// sprite already emitted.
	DedupNone DedupStrategy = iota
	// DedupContent reuses the id of an earlier sprite with identical size
	// and pixels, and writes no file for the duplicate.
	DedupContent
)

func (s DedupStrategy) String() string {
	switch s {
	case DedupNone:
		return "none"
	case DedupContent:
		return "content"
	default:
		return fmt.Sprintf("dedup(%d)", int(s))
	}
}

// ParseDedupStrategy parses "none" or "content".
func ParseDedupStrategy(s string) (DedupStrategy, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return DedupNone, nil
	case "content":
		return DedupContent, nil
	default:
		return 0, fmt.Errorf("%w: unknown dedup strategy %q", appearance.ErrInvalidData, s)
	}
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDedup selects the sprite deduplication strategy.
func WithDedup(s DedupStrategy) Option {
	return func(c *Compiler) { c.dedup = s }
}

// WithAtomicPublish controls staging. When enabled (the default) output is
// built in a sibling staging directory and renamed into place only after
// the whole manifest compiled. When disabled files are written straight
// into the output directory and a failed run leaves a partial package that
// must not be loaded.
func WithAtomicPublish(enabled bool) Option {
	return func(c *Compiler) { c.atomic = enabled }
}

// WithAssetRootPrefix changes the prefix of base-relative spritesheet paths.
func WithAssetRootPrefix(prefix string) Option {
	return func(c *Compiler) { c.assetRoot = prefix }
}
