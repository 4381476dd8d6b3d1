package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/config"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/appearance"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/compiler"
)

const orcManifest = `{
  "version": 1,
  "appearances": [
    {
      "id": 1,
      "name": "orc",
      "size": 8,
      "framegroups": [
        {
          "name": "idle",
          "spritesheet": "assets/sprites/orc/idle.png",
          "animations": {"null": {"frame_count": 2}}
        }
      ]
    }
  ]
}`

// writeProject lays out a project under root the way the compile defaults
// expect: manifest in assets/appearances, sheets elsewhere under assets/.
func writeProject(t *testing.T, root string) {
	t.Helper()
	manifest := filepath.Join(root, defaultManifest)
	if err := os.MkdirAll(filepath.Dir(manifest), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(manifest, []byte(orcManifest), 0644); err != nil {
		t.Fatal(err)
	}

	sheetPath := filepath.Join(root, "assets", "sprites", "orc", "idle.png")
	if err := os.MkdirAll(filepath.Dir(sheetPath), 0755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x40, A: 255})
		}
	}
	f, err := os.Create(sheetPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultBaseResolvesFromProjectRoot(t *testing.T) {
	got := compiler.ResolvePath(defaultBase, compiler.DefaultAssetRootPrefix, "assets/sprites/orc/idle.png")
	if want := filepath.FromSlash("assets/sprites/orc/idle.png"); got != want {
		t.Errorf("ResolvePath = %s, want %s", got, want)
	}
}

func TestCompileWithDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := t.TempDir()
	writeProject(t, root)
	t.Chdir(root)

	cmdCompile(nil)

	db, _, err := loadPackage(defaultOutput, config.Default())
	if err != nil {
		t.Fatalf("loading compiled package: %v", err)
	}
	app, ok := db.Get(1)
	if !ok {
		t.Fatal("appearance 1 missing")
	}
	anim := app.FrameGroups[0].Animations[appearance.NoDirection()]
	if anim == nil || len(anim.SpriteIDs) != 2 {
		t.Fatalf("animation = %+v", anim)
	}
}

func TestLoadPackagePreload(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)
	m, err := appearance.ParseManifestFile(filepath.Join(root, defaultManifest))
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, "out")
	if _, err := compiler.Compile(m, root, dir); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	cfg := config.Default()
	_, ld, err := loadPackage(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ld.CachedCount() != 0 {
		t.Errorf("expected lazy load, got %d cached sprites", ld.CachedCount())
	}

	cfg.Loader.Preload = true
	_, ld, err = loadPackage(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ld.CachedCount() != 2 || ld.CacheBytes() != 2*8*8*4 {
		t.Errorf("preload cached %d sprites, %d bytes", ld.CachedCount(), ld.CacheBytes())
	}
}

func TestWriteConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Loader.Preload = true

	if path, err := writeConfig(cfg, false, ""); err != nil || path != "" {
		t.Errorf("writeConfig without a target = %q, %v", path, err)
	}

	explicit := filepath.Join(t.TempDir(), "tool.yaml")
	path, err := writeConfig(cfg, true, explicit)
	if err != nil || path != explicit {
		t.Fatalf("writeConfig -o = %q, %v", path, err)
	}
	if _, err := os.Stat(explicit); err != nil {
		t.Errorf("explicit config not written: %v", err)
	}

	path, err = writeConfig(cfg, true, "")
	if err != nil {
		t.Fatalf("writeConfig -save: %v", err)
	}
	if want := filepath.Join(config.ConfigDir(), config.FileName); path != want {
		t.Errorf("saved to %s, want %s", path, want)
	}

	loaded, err := config.Load(&config.Flags{Config: path})
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Loader.Preload {
		t.Error("saved config lost preload")
	}
}
