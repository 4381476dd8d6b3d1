package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/HugoSmits86/nativewebp"
	"github.com/nfnt/resize"

	"github.com/Anderson0xFF/yggdrasil-tools/internal/logger"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/loader"
	"github.com/Anderson0xFF/yggdrasil-tools/pkg/sheet"
)

func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	outputDir := fs.String("o", ".", "Output directory")
	format := fs.String("format", "png", "Image format: png or webp")
	scale := fs.Uint("scale", 1, "Upscale sprites by this integer factor (nearest neighbor)")
	show := fs.Bool("show", false, "Also draw each sprite in the terminal")
	setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 2 {
		usage("extract [-o out] [-format png|webp] [-scale N] [-show] <dir> <sprite_id>...")
	}
	if *format != "png" && *format != "webp" {
		fatal(fmt.Errorf("unknown format %q", *format))
	}
	if *scale == 0 {
		fatal(errors.New("scale must be at least 1"))
	}

	ld := loader.New(fs.Arg(0), loader.WithLogger(logger.Named("loader")))
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal(err)
	}

	extracted := 0
	for _, arg := range fs.Args()[1:] {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid sprite id %q\n", arg)
			continue
		}
		s, err := ld.LoadSprite(uint32(id))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading sprite %d: %v\n", id, err)
			continue
		}

		var img image.Image = sheet.ToImage(int(s.Width), int(s.Height), s.Pixels)
		if factor := *scale; factor > 1 {
			img = resize.Resize(uint(s.Width)*factor, uint(s.Height)*factor, img, resize.NearestNeighbor)
		}
		outputPath := filepath.Join(*outputDir, fmt.Sprintf("%05d.%s", id, *format))
		if err := writeImage(outputPath, img, *format); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputPath, err)
			continue
		}

		fmt.Printf("Extracted: %s (%dx%d)\n", outputPath, s.Width, s.Height)
		if *show && !showImage(img) {
			fmt.Fprintln(os.Stderr, "Terminal cannot display images")
			*show = false
		}
		extracted++
	}

	fmt.Fprintf(os.Stderr, "\nExtracted %d sprites\n", extracted)
	if extracted < len(fs.Args())-1 {
		logger.Sync()
		os.Exit(1)
	}
}

func writeImage(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == "webp" {
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
	} else if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return f.Close()
}
