//go:build !windows

package main

import (
	"fmt"
	"image"
	"os"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

// showImage draws img inline on terminals that support the kitty, iTerm or
// sixel protocols. It reports false when the terminal supports none.
func showImage(img image.Image) bool {
	if rasterm.IsTermKitty() {
		rasterm.Settings{}.KittyWriteImage(os.Stdout, img)
		fmt.Println()
		return true
	}
	if rasterm.IsTermItermWez() {
		rasterm.Settings{}.ItermWriteImage(os.Stdout, img)
		fmt.Println()
		return true
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		paletted := image.NewPaletted(img.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(paletted, img.Bounds(), img, image.Point{})

		rasterm.Settings{}.SixelWriteImage(os.Stdout, paletted)
		fmt.Println()
		return true
	}
	return false
}
