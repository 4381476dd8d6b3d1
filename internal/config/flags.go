package config

import "flag"

// Flags holds the command-line overrides shared by every subcommand.
type Flags struct {
	Config   string
	Debug    bool
	LogFile  string
	Dedup    string
	NoAtomic bool
	Lenient  bool
	Preload  bool
	Workers  int
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Write logs to this file as well")
	fs.StringVar(&f.Dedup, "dedup", "", "Sprite deduplication: none or content")
	fs.BoolVar(&f.NoAtomic, "no-atomic", false, "Write output in place instead of staging it")
	fs.BoolVar(&f.Lenient, "lenient", false, "Decode unknown direction codes as north")
	fs.BoolVar(&f.Preload, "preload", false, "Load every sprite when opening a package")
	fs.IntVar(&f.Workers, "j", 0, "Concurrent sprite loads")
	return f
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Dedup != "" {
		cfg.Compiler.Dedup = f.Dedup
	}
	if f.NoAtomic {
		cfg.Compiler.AtomicPublish = false
	}
	if f.Lenient {
		cfg.Loader.LenientTags = true
	}
	if f.Preload {
		cfg.Loader.Preload = true
	}
	if f.Workers > 0 {
		cfg.Loader.Workers = f.Workers
	}
}
