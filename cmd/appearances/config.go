package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/config"
	"github.com/Anderson0xFF/yggdrasil-tools/internal/logger"
)

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	output := fs.String("o", "", "Save to this file instead")
	cfg := setup(fs, args)
	defer logger.Sync()

	path, err := writeConfig(cfg, *save, *output)
	if err != nil {
		fatal(err)
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "Saved %s\n", path)
		return
	}

	data, err := cfg.Marshal()
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(data)
}

// writeConfig saves cfg to output, or to the user config directory when
// save is set. It returns the path written, or "" when nothing was asked.
func writeConfig(cfg *config.Config, save bool, output string) (string, error) {
	switch {
	case output != "":
		return output, cfg.SaveTo(output)
	case save:
		return filepath.Join(config.ConfigDir(), config.FileName), cfg.Save()
	}
	return "", nil
}
