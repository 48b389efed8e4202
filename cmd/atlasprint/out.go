package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"

	"github.com/Facepunch/sbox-voxelatlas/imageprint"
	"github.com/Facepunch/sbox-voxelatlas/pack"
)

func printer(name string) *imageprint.Printer {
	p := &imageprint.Printer{W: os.Stdout, Blanks: *blanks, Name: name}
	switch {
	case *rasterm:
		p.Style = imageprint.RasTerm
	case !*col:
		p.Style = imageprint.NoColor
	case *iterm:
		p.Style = imageprint.ITerm
	case *col256:
		p.Style = imageprint.Color256
	default:
		p.Style = imageprint.TrueColor
	}
	return p
}

func fit(img image.Image) image.Image {
	if !*downsize {
		return img
	}
	termSize, err := GetTermSize()
	if err != nil {
		return img
	}
	if (termSize.WSXPixel != 0 && termSize.WSYPixel != 0) && (*rasterm || *iterm) {
		// Inline images can use the terminal's pixel size.
		return resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.NearestNeighbor)
	}
	// Each pixel takes two columns.
	return resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.NearestNeighbor)
}

func out(img image.Image, name string) error {
	return printer(name).Print(fit(img))
}

func outPacked(img *pack.Image) error {
	p := printer(filepath.Base(manifestPath) + ".png")
	if !*downsize {
		return p.PrintPacked(img)
	}
	fmt.Fprintln(p.W, imageprint.Summary(img))
	if len(img.Placements) == 0 || img.Pixels.Bounds().Empty() {
		return nil
	}
	return p.Print(fit(img.Pixels))
}
