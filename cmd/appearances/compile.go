package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/logger"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/compiler"
)

// Defaults for a project laid out with its manifest and sheets under assets/.
const (
	defaultManifest = "assets/appearances/appearances.json"
	defaultOutput   = "assets/appearances/compiled"
	defaultBase     = "."
)

func cmdCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	input := fs.String("i", defaultManifest, "Manifest file (JSON or YAML)")
	output := fs.String("o", defaultOutput, "Output package directory")
	base := fs.String("b", defaultBase, "Base path that asset-relative spritesheet paths resolve against")
	cfg := setup(fs, args)
	defer logger.Sync()

	if *input == "" || *output == "" {
		usage("compile [-i manifest] [-o dir] [-b base] [-dedup none|content] [-no-atomic]")
	}
	if *base == "" {
		*base = defaultBase
	}

	dedup, err := compiler.ParseDedupStrategy(cfg.Compiler.Dedup)
	if err != nil {
		fatal(err)
	}

	m, err := appearance.ParseManifestFile(*input)
	if err != nil {
		fatal(err)
	}
	logger.Info("loaded manifest",
		zap.String("path", *input),
		zap.Uint32("version", m.Version),
		zap.Int("appearances", len(m.Appearances)))

	c := compiler.New(
		compiler.WithLogger(logger.Named("compiler")),
		compiler.WithDedup(dedup),
		compiler.WithAtomicPublish(cfg.Compiler.AtomicPublish),
		compiler.WithAssetRootPrefix(cfg.Compiler.AssetRootPrefix),
	)
	stats, err := c.Compile(m, *base, *output)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Package:      %s\n", *output)
	out.Printf("Appearances:  %d\n", stats.Appearances)
	out.Printf("Sprites:      %d\n", stats.Sprites)
	if dedup != compiler.DedupNone {
		out.Printf("Deduplicated: %d\n", stats.Deduplicated)
	}
	out.Printf("Index:        %d bytes\n", stats.IndexBytes)
	out.Printf("Sprite data:  %d bytes\n", stats.SpriteBytes)
}
