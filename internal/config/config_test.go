package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Compiler.AssetRootPrefix != "assets/" {
		t.Errorf("expected asset root 'assets/', got %s", cfg.Compiler.AssetRootPrefix)
	}
	if cfg.Compiler.Dedup != "none" {
		t.Errorf("expected dedup 'none', got %s", cfg.Compiler.Dedup)
	}
	if !cfg.Compiler.AtomicPublish {
		t.Error("expected atomic publish to be enabled by default")
	}

	if cfg.Loader.LenientTags {
		t.Error("expected strict tags by default")
	}
	if cfg.Loader.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Loader.Workers)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
compiler:
  asset_root_prefix: "res/"
  dedup: content
  atomic_publish: false

loader:
  lenient_tags: true
  preload: true
  workers: 8

logging:
  level: "debug"
  log_file: "appearances.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Compiler.AssetRootPrefix != "res/" {
		t.Errorf("expected asset root 'res/', got %s", cfg.Compiler.AssetRootPrefix)
	}
	if cfg.Compiler.Dedup != "content" {
		t.Errorf("expected dedup 'content', got %s", cfg.Compiler.Dedup)
	}
	if cfg.Compiler.AtomicPublish {
		t.Error("expected atomic publish to be disabled")
	}
	if !cfg.Loader.LenientTags || !cfg.Loader.Preload {
		t.Errorf("expected lenient tags and preload, got %+v", cfg.Loader)
	}
	if cfg.Loader.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Loader.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "appearances.log" {
		t.Errorf("expected log file 'appearances.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
loader:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/appearances.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("loader:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "dedup flag",
			args: []string{"-dedup", "content"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Compiler.Dedup != "content" {
					t.Errorf("expected dedup 'content', got %s", cfg.Compiler.Dedup)
				}
			},
		},
		{
			name: "no-atomic flag",
			args: []string{"-no-atomic"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Compiler.AtomicPublish {
					t.Error("expected atomic publish to be disabled")
				}
			},
		},
		{
			name: "lenient and workers",
			args: []string{"-lenient", "-j", "16"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Loader.LenientTags {
					t.Error("expected lenient tags")
				}
				if cfg.Loader.Workers != 16 {
					t.Errorf("expected 16 workers, got %d", cfg.Loader.Workers)
				}
			},
		},
		{
			name: "preload flag",
			args: []string{"-preload"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Loader.Preload {
					t.Error("expected preload to be enabled")
				}
			},
		},
		{
			name: "no flags keeps defaults",
			args: nil,
			verify: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("expected defaults, got %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			f := BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			cfg := Default()
			applyFlags(cfg, f)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
compiler:
  dedup: content
loader:
  workers: 2
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-j", "12"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers from flag, not file
	if cfg.Loader.Workers != 12 {
		t.Errorf("expected 12 workers from flag, got %d", cfg.Loader.Workers)
	}
	// Dedup from file since no flag override
	if cfg.Compiler.Dedup != "content" {
		t.Errorf("expected dedup 'content' from file, got %s", cfg.Compiler.Dedup)
	}
	// Untouched defaults survive
	if !cfg.Compiler.AtomicPublish {
		t.Error("expected atomic publish default to survive")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Compiler.Dedup = "content"
	cfg.Loader.Workers = 3
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveToUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg := Default()
	cfg.Loader.Preload = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Load finds the saved file without an explicit path.
	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Loader.Preload {
		t.Errorf("expected saved preload setting, got %+v", loaded.Loader)
	}
}
