// Package config handles appearance tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Compiler CompilerConfig `yaml:"compiler"`
	Loader   LoaderConfig   `yaml:"loader"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CompilerConfig holds manifest compilation settings.
type CompilerConfig struct {
	AssetRootPrefix string `yaml:"asset_root_prefix"` // Spritesheet paths with this prefix resolve against the base path
	Dedup           string `yaml:"dedup"`             // "none" or "content"
	AtomicPublish   bool   `yaml:"atomic_publish"`
}

// LoaderConfig holds package loading settings.
type LoaderConfig struct {
	LenientTags bool `yaml:"lenient_tags"` // Decode unknown direction codes as north
	Preload     bool `yaml:"preload"`      // Load every sprite up front
	Workers     int  `yaml:"workers"`      // Concurrent sprite loads during verify
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			AssetRootPrefix: "assets/",
			Dedup:           "none",
			AtomicPublish:   true,
		},
		Loader: LoaderConfig{
			LenientTags: false,
			Preload:     false,
			Workers:     4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
