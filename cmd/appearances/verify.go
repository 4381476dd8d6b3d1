package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/assets"
	"github.com/Anderson0xFF/yggdrasil-tools/internal/logger"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sprite"
)

// spriteResult is the outcome of loading one sprite.
type spriteResult struct {
	ID  uint32
	Err error
}

func cmdVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		usage("verify [-j N] [-preload] <dir>")
	}
	dir := fs.Arg(0)

	m, err := assets.Open(dir, assets.Options{
		Logger:      logger.Named("assets"),
		LenientTags: cfg.Loader.LenientTags,
		Preload:     cfg.Loader.Preload,
	})
	if err != nil {
		fatal(err)
	}

	ids := m.Database().SpriteIDs()
	results := make([]spriteResult, len(ids))

	var g errgroup.Group
	g.SetLimit(max(cfg.Loader.Workers, 1))
	for i, id := range ids {
		g.Go(func() error {
			_, err := m.Sprite(id)
			results[i] = spriteResult{ID: id, Err: err}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL sprite %d: %v\n", r.ID, r.Err)
		}
	}

	orphans := orphanSprites(dir, ids)
	for _, name := range orphans {
		logger.Warn("unreferenced sprite file", zap.String("file", name))
	}

	stats := m.Stats()
	out.Printf("Appearances: %d\n", m.Database().Count())
	out.Printf("Sprites:     %d referenced, %d loaded, %d failed\n", len(ids), stats.Sprites, failed)
	out.Printf("Pixels:      %d bytes\n", stats.Bytes)
	if len(orphans) > 0 {
		out.Printf("Orphans:     %d unreferenced sprite files\n", len(orphans))
	}

	if failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}

// orphanSprites lists sprite files in dir whose id no animation references.
func orphanSprites(dir string, referenced []uint32) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+sprite.FileExt))
	if err != nil {
		return nil
	}
	used := make(map[uint32]bool, len(referenced))
	for _, id := range referenced {
		used[id] = true
	}

	var orphans []string
	for _, path := range matches {
		name := filepath.Base(path)
		id, err := strconv.ParseUint(strings.TrimSuffix(name, sprite.FileExt), 10, 32)
		if err != nil || !used[uint32(id)] {
			orphans = append(orphans, name)
		}
	}
	return orphans
}
