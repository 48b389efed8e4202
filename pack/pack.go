// Package pack composes loaded sprites into a single atlas image.
//
// All sprites in an atlas are squares of one tile size, so packing is plain
// row-major shelf placement: tiles go left to right and wrap to a new row
// when the next one would cross the maximum width. Given the same sprites,
// tile size and width, the output is byte-for-byte identical.
package pack

import (
	"image"
	"image/draw"

	"github.com/Facepunch/sbox-voxelatlas/sprite"
)

// DefaultMaxWidth is the width limit used for export. The downstream
// renderer assumes a square canvas of this size.
const DefaultMaxWidth = 2048

// Mode selects how the canvas is sized.
type Mode int

const (
	// Tight sizes the canvas to the packed content, for previews.
	Tight Mode = iota
	// Canvas always produces a maxWidth by maxWidth canvas, for export.
	Canvas
)

func (m Mode) String() string {
	switch m {
	case Tight:
		return "tight"
	case Canvas:
		return "canvas"
	default:
		return "unknown"
	}
}

// Placement is the top-left corner of one sprite's tile within the atlas.
type Placement struct {
	SpriteIndex int
	X, Y        int
}

// Image is a packed atlas. It is derived from sprites on demand and never
// persisted on its own.
type Image struct {
	Pixels     *image.RGBA
	Placements []Placement
	TileSize   int
	MaxWidth   int
	Mode       Mode
}

// Rect returns the tile rectangle of the i-th placement.
func (img *Image) Rect(i int) image.Rectangle {
	p := img.Placements[i]
	return image.Rect(p.X, p.Y, p.X+img.TileSize, p.Y+img.TileSize)
}

// SpritesPerRow returns how many tiles fit side by side before wrapping.
func (img *Image) SpritesPerRow() int {
	return SpritesPerRow(img.TileSize, img.MaxWidth)
}

// Overflow counts placements that do not fit entirely inside Pixels. Only
// a Canvas pack holding more sprites than the canvas can fit overflows;
// those sprites are clipped from the output.
func (img *Image) Overflow() int {
	n := 0
	b := img.Pixels.Bounds()
	for i := range img.Placements {
		if !img.Rect(i).In(b) {
			n++
		}
	}
	return n
}

// Rows returns the number of rows holding at least one sprite.
func (img *Image) Rows() int {
	if len(img.Placements) == 0 || img.TileSize <= 0 {
		return 0
	}
	return img.Placements[len(img.Placements)-1].Y/img.TileSize + 1
}

// SpritesPerRow returns how many tiles of tileSize fit in maxWidth. A tile
// wider than maxWidth still gets a row of its own.
func SpritesPerRow(tileSize, maxWidth int) int {
	if tileSize <= 0 {
		return 0
	}
	n := maxWidth / tileSize
	if n < 1 {
		n = 1
	}
	return n
}

// Layout computes shelf placements for count tiles of tileSize within
// maxWidth. It also returns the width of the widest row and the number of
// rows a Tight canvas has.
//
// A tile wraps to the next row only when it would otherwise cross
// maxWidth, so a row that is exactly full wraps on the following tile, not
// before. The Tight row count always leaves room for the row the next tile
// would start, which is why an empty atlas is still one tile tall.
func Layout(count, tileSize, maxWidth int) (placements []Placement, width, rows int) {
	if tileSize <= 0 {
		return nil, 0, 0
	}

	placements = make([]Placement, 0, count)
	x, y := 0, 0
	for i := 0; i < count; i++ {
		if x > 0 && x+tileSize > maxWidth {
			x = 0
			y += tileSize
		}
		placements = append(placements, Placement{SpriteIndex: i, X: x, Y: y})
		x += tileSize
		if x > width {
			width = x
		}
	}

	rows = count/SpritesPerRow(tileSize, maxWidth) + 1
	return placements, width, rows
}

// Pack lays sprites out in input order and draws them onto a transparent
// canvas sized according to mode. A maxWidth of zero or less means
// DefaultMaxWidth.
func Pack(sprites []sprite.Entry, tileSize, maxWidth int, mode Mode) *Image {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	placements, width, rows := Layout(len(sprites), tileSize, maxWidth)

	var bounds image.Rectangle
	switch {
	case tileSize <= 0:
		// Nothing sensible can be drawn.
	case mode == Canvas:
		bounds = image.Rect(0, 0, maxWidth, maxWidth)
	default:
		bounds = image.Rect(0, 0, width, rows*tileSize)
	}

	dst := image.NewRGBA(bounds)
	for _, p := range placements {
		src := sprites[p.SpriteIndex].Pixels
		if src == nil {
			continue
		}
		r := image.Rect(p.X, p.Y, p.X+tileSize, p.Y+tileSize)
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Src)
	}

	return &Image{
		Pixels:     dst,
		Placements: placements,
		TileSize:   tileSize,
		MaxWidth:   maxWidth,
		Mode:       mode,
	}
}
