package pack

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/bradfitz/iter"

	"github.com/Facepunch/sbox-voxelatlas/sprite"
	"github.com/Facepunch/sbox-voxelatlas/ttesting"
)

// sprites returns n solid sprites whose red channel encodes their index.
func sprites(n, tileSize int) []sprite.Entry {
	var entries []sprite.Entry
	for i := range iter.N(n) {
		c := color.RGBA{uint8(i), uint8(i >> 8), 0x80, 0xff}
		entries = append(entries, sprite.Entry{
			RelativePath: fmt.Sprintf("s/%04d.png", i),
			Name:         fmt.Sprintf("%04d", i),
			Pixels:       sprite.Fit(ttesting.SolidImage(tileSize, tileSize, c), tileSize, 0),
		})
	}
	return entries
}

func rects(img *Image) []image.Rectangle {
	var r []image.Rectangle
	for i := range img.Placements {
		r = append(r, img.Rect(i))
	}
	return r
}

func TestPackFullRow(t *testing.T) {
	img := Pack(sprites(64, 32), 32, 2048, Tight)

	ttesting.AssertEqualPoint(t, "tight size", img.Pixels.Bounds().Size(), image.Pt(2048, 64))
	ttesting.AssertEqualInt(t, "placements", len(img.Placements), 64)
	ttesting.AssertEqualPoint(t, "first", image.Pt(img.Placements[0].X, img.Placements[0].Y), image.Pt(0, 0))
	ttesting.AssertEqualPoint(t, "last", image.Pt(img.Placements[63].X, img.Placements[63].Y), image.Pt(2016, 0))
	ttesting.AssertEqualInt(t, "last index", img.Placements[63].SpriteIndex, 63)
	ttesting.AssertEqualInt(t, "per row", img.SpritesPerRow(), 64)
}

func TestPackWrapsAfterFullRow(t *testing.T) {
	img := Pack(sprites(65, 32), 32, 2048, Tight)

	ttesting.AssertEqualPoint(t, "tight size", img.Pixels.Bounds().Size(), image.Pt(2048, 64))
	ttesting.AssertEqualPoint(t, "wrapped", image.Pt(img.Placements[64].X, img.Placements[64].Y), image.Pt(0, 32))

	small := Pack(sprites(5, 8), 8, 32, Tight)
	for i := 0; i < 4; i++ {
		ttesting.AssertEqualInt(t, fmt.Sprintf("sprite %d stays on row 0", i), small.Placements[i].Y, 0)
	}
	ttesting.AssertEqualPoint(t, "fifth wraps", image.Pt(small.Placements[4].X, small.Placements[4].Y), image.Pt(0, 8))
}

func TestPackEmpty(t *testing.T) {
	tight := Pack(nil, 32, 2048, Tight)
	ttesting.AssertEqualPoint(t, "tight size", tight.Pixels.Bounds().Size(), image.Pt(0, 32))
	ttesting.AssertEqualInt(t, "tight placements", len(tight.Placements), 0)

	canvas := Pack(nil, 32, 2048, Canvas)
	ttesting.AssertEqualPoint(t, "canvas size", canvas.Pixels.Bounds().Size(), image.Pt(2048, 2048))
	for i, b := range canvas.Pixels.Pix {
		if b != 0 {
			t.Fatalf("canvas byte %d is %d; want fully transparent", i, b)
		}
	}
}

func TestPackCanvasDefaultWidth(t *testing.T) {
	img := Pack(sprites(3, 16), 16, 0, Canvas)
	ttesting.AssertEqualPoint(t, "canvas size", img.Pixels.Bounds().Size(), image.Pt(DefaultMaxWidth, DefaultMaxWidth))
	ttesting.AssertEqualInt(t, "overflow", img.Overflow(), 0)
}

func TestPackNoOverlap(t *testing.T) {
	for _, tc := range []struct {
		count, tileSize, maxWidth int
	}{
		{1, 32, 2048},
		{100, 32, 2048},
		{200, 16, 100},
		{7, 64, 32},
		{33, 30, 100},
		{10, 1, 3},
	} {
		name := fmt.Sprintf("%d sprites of %d in %d", tc.count, tc.tileSize, tc.maxWidth)
		img := Pack(sprites(tc.count, tc.tileSize), tc.tileSize, tc.maxWidth, Tight)
		ttesting.AssertDisjoint(t, name, rects(img))
		for i := range img.Placements {
			if !img.Rect(i).In(img.Pixels.Bounds()) {
				t.Errorf("%s: placement %d %v outside tight bounds %v", name, i, img.Rect(i), img.Pixels.Bounds())
			}
		}
	}
}

func TestPackUnevenWidth(t *testing.T) {
	img := Pack(sprites(4, 30), 30, 100, Tight)

	want := []image.Point{{0, 0}, {30, 0}, {60, 0}, {0, 30}}
	for i, w := range want {
		ttesting.AssertEqualPoint(t, fmt.Sprintf("placement %d", i), image.Pt(img.Placements[i].X, img.Placements[i].Y), w)
	}
	ttesting.AssertEqualPoint(t, "tight size", img.Pixels.Bounds().Size(), image.Pt(90, 60))
}

func TestPackTileWiderThanMax(t *testing.T) {
	img := Pack(sprites(2, 64), 64, 32, Tight)
	ttesting.AssertEqualPoint(t, "first", image.Pt(img.Placements[0].X, img.Placements[0].Y), image.Pt(0, 0))
	ttesting.AssertEqualPoint(t, "second", image.Pt(img.Placements[1].X, img.Placements[1].Y), image.Pt(0, 64))
}

func TestPackDrawsSprites(t *testing.T) {
	in := sprites(10, 4)
	img := Pack(in, 4, 12, Tight)

	for i, p := range img.Placements {
		want := in[p.SpriteIndex].Pixels.RGBAAt(0, 0)
		for _, pt := range []image.Point{{p.X, p.Y}, {p.X + 3, p.Y + 3}} {
			if got := img.Pixels.RGBAAt(pt.X, pt.Y); got != want {
				t.Errorf("placement %d at %v: got %v; want %v", i, pt, got, want)
			}
		}
	}

	// Row of three, so (0,12) is sprite 9 and (4,12) is unused.
	if got := img.Pixels.RGBAAt(4, 12); got != (color.RGBA{}) {
		t.Errorf("unused tile is %v; want transparent", got)
	}
}

func TestPackDeterministic(t *testing.T) {
	in := sprites(150, 16)
	for _, mode := range []Mode{Tight, Canvas} {
		a := Pack(in, 16, 512, mode)
		b := Pack(in, 16, 512, mode)
		if !bytes.Equal(a.Pixels.Pix, b.Pixels.Pix) {
			t.Errorf("%v: pixel output differs between runs", mode)
		}
		if !reflect.DeepEqual(a.Placements, b.Placements) {
			t.Errorf("%v: placements differ between runs", mode)
		}
	}
}

func TestPackCanvasOverflow(t *testing.T) {
	img := Pack(sprites(5, 1024), 1024, 2048, Canvas)
	ttesting.AssertEqualInt(t, "overflowing placements", img.Overflow(), 1)
	ttesting.AssertEqualPoint(t, "clipped", image.Pt(img.Placements[4].X, img.Placements[4].Y), image.Pt(0, 2048))
}

func TestPackZeroTileSize(t *testing.T) {
	img := Pack(sprites(3, 4), 0, 2048, Tight)
	ttesting.AssertEqualPoint(t, "size", img.Pixels.Bounds().Size(), image.Pt(0, 0))
	ttesting.AssertEqualInt(t, "placements", len(img.Placements), 0)
}

func TestRows(t *testing.T) {
	ttesting.AssertEqualInt(t, "full row", Pack(sprites(64, 32), 32, 2048, Tight).Rows(), 1)
	ttesting.AssertEqualInt(t, "wrapped", Pack(sprites(65, 32), 32, 2048, Tight).Rows(), 2)
	ttesting.AssertEqualInt(t, "empty", Pack(nil, 32, 2048, Tight).Rows(), 0)
}

func TestModeString(t *testing.T) {
	ttesting.AssertEqualString(t, "tight", Tight.String(), "tight")
	ttesting.AssertEqualString(t, "canvas", Canvas.String(), "canvas")
}

func ExampleLayout() {
	placements, width, rows := Layout(5, 32, 96)
	for _, p := range placements {
		fmt.Printf("%d: (%d, %d)\n", p.SpriteIndex, p.X, p.Y)
	}
	fmt.Printf("%dx%d\n", width, rows*32)
	// Output:
	// 0: (0, 0)
	// 1: (32, 0)
	// 2: (64, 0)
	// 3: (0, 32)
	// 4: (32, 32)
	// 96x64
}
