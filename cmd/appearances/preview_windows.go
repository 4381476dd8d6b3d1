package main

import "image"

func showImage(img image.Image) bool {
	return false
}
