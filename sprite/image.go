package sprite

// This file contains the conversion of decoded source images into the
// fixed-size RGBA tiles an atlas is composed from.

import (
	"image"
	"image/draw"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Fit returns img as a size by size *image.RGBA whose origin is (0, 0).
//
// An image that already has the right dimensions is copied pixel for pixel.
// Anything else is stretched to fit, ignoring aspect ratio: sprites in one
// atlas are authored at a single canonical size, so a mismatch is a scale
// change rather than a different shape.
func Fit(img image.Image, size int, interp resize.InterpolationFunction) *image.RGBA {
	b := img.Bounds()
	if b.Dx() != size || b.Dy() != size {
		img = resize.Resize(uint(size), uint(size), img, interp)
		b = img.Bounds()
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

var interpolations = map[string]resize.InterpolationFunction{
	"nearest":  resize.NearestNeighbor,
	"bilinear": resize.Bilinear,
	"bicubic":  resize.Bicubic,
	"mitchell": resize.MitchellNetravali,
	"lanczos2": resize.Lanczos2,
	"lanczos3": resize.Lanczos3,
}

// ParseInterpolation maps a flag value such as "nearest" or "lanczos3" to the
// matching resize.InterpolationFunction.
func ParseInterpolation(name string) (resize.InterpolationFunction, error) {
	if f, ok := interpolations[strings.ToLower(name)]; ok {
		return f, nil
	}
	return resize.NearestNeighbor, errors.Errorf("unknown interpolation %q (want one of nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3)", name)
}
