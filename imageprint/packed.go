package imageprint

import (
	"fmt"

	"github.com/Facepunch/sbox-voxelatlas/pack"
)

// Summary describes a packed atlas in one line.
func Summary(img *pack.Image) string {
	b := img.Pixels.Bounds()
	return fmt.Sprintf("%d sprites, %dx%d, tile %d, %d per row (%s)",
		len(img.Placements), b.Dx(), b.Dy(), img.TileSize, img.SpritesPerRow(), img.Mode)
}

// PrintPacked prints the Summary of a packed atlas followed by its pixels.
// An atlas with no sprites prints only the summary.
func (p *Printer) PrintPacked(img *pack.Image) error {
	fmt.Fprintln(p.W, Summary(img))
	if len(img.Placements) == 0 || img.Pixels.Bounds().Empty() {
		return nil
	}
	return p.Print(img.Pixels)
}
