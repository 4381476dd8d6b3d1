package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/config"
	"github.com/Anderson0xFF/yggdrasil-tools/internal/logger"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/loader"
)

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	showIDs := fs.Bool("ids", false, "Print sprite ids of every animation")
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		usage("info [-ids] [-preload] <dir>")
	}

	db, ld, err := loadPackage(fs.Arg(0), cfg)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Package:     %s\n", fs.Arg(0))
	fmt.Printf("Version:     %d\n", db.Version)
	out.Printf("Appearances: %d\n", db.Count())
	out.Printf("Sprites:     %d\n", len(db.SpriteIDs()))
	if cfg.Loader.Preload {
		out.Printf("Preloaded:   %d sprites, %d bytes\n", ld.CachedCount(), ld.CacheBytes())
	}
	fmt.Println()

	for _, app := range db.All() {
		fmt.Printf("[%d] %s  size=%d offset=(%d,%d)\n", app.ID, app.Name, app.Size, app.Offset.X, app.Offset.Y)
		for _, fg := range app.FrameGroups {
			fmt.Printf("  %s\n", fg.Name)
			for _, key := range fg.Order {
				printAnimation(key, fg.Animations[key], *showIDs)
			}
		}
	}
}

// loadPackage opens dir with every sprite loaded up front when
// loader.preload is set, and the index alone otherwise.
func loadPackage(dir string, cfg *config.Config) (*appearance.Database, *loader.Loader, error) {
	opts := []loader.Option{loader.WithLogger(logger.Named("loader"))}
	if cfg.Loader.LenientTags {
		opts = append(opts, loader.WithLenientTags())
	}
	if cfg.Loader.Preload {
		return loader.LoadAll(dir, opts...)
	}
	return loader.LoadDatabaseOnly(dir, opts...)
}

func printAnimation(key appearance.DirectionKey, anim *appearance.CompiledAnimation, showIDs bool) {
	timing := "static"
	if anim.Duration > 0 {
		timing = fmt.Sprintf("%dms", anim.Duration)
		if anim.Looped {
			timing += " looped"
		}
	}
	fmt.Printf("    %-10s %2d frames  %s\n", key, len(anim.SpriteIDs), timing)
	if showIDs {
		ids := make([]string, len(anim.SpriteIDs))
		for i, id := range anim.SpriteIDs {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Printf("               ids: %s\n", strings.Join(ids, " "))
	}
}
