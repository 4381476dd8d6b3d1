// appearances compiles appearance manifests into sprite packages and
// inspects compiled packages.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/config"
	"github.com/Anderson0xFF/yggdrasil-tools/internal/logger"
)

// out formats counts with thousands separators.
var out = message.NewPrinter(language.English)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile", "c":
		cmdCompile(args)
	case "info", "i":
		cmdInfo(args)
	case "extract", "x":
		cmdExtract(args)
	case "verify", "v":
		cmdVerify(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`appearances - appearance compiler and package inspector

Usage:
  appearances <command> [options]

Commands:
  compile [-i manifest] [-o dir] [-b base]   Compile a manifest into a package
                                             (defaults: assets/appearances/appearances.json,
                                             assets/appearances/compiled, .)
  info [-ids] <dir>                          List appearances in a package
  extract [-o out] [-format png|webp] [-scale N] [-show] <dir> <sprite_id>...
                                             Export sprites as images
  verify [-j N] <dir>                        Load every sprite and report failures
  config [-save] [-o file]                   Print or save the effective configuration

Common options:
  -config <file>   Config file (default ./appearances.yaml)
  -debug           Enable debug logging
  -log <file>      Also write logs to a rotating file
  -lenient         Decode unknown direction codes as north
  -preload         Load every sprite when opening a package (info, verify)

Examples:
  appearances compile
  appearances compile -i appearances.json -o build/appearances -b .
  appearances compile -dedup content -i monsters.yaml -o build/monsters
  appearances info build/appearances
  appearances extract -format webp -o sprites build/appearances 1 2 3
  appearances extract -scale 4 -show build/appearances 12
  appearances verify -j 8 build/appearances
  appearances config -dedup content -save`)
}

// setup parses args, loads configuration and starts logging.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	flags := config.BindFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal(err)
	}
	return cfg
}

func fatal(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func usage(line string) {
	fmt.Fprintln(os.Stderr, "Usage: appearances "+line)
	os.Exit(1)
}
