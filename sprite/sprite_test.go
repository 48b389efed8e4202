package sprite

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/nfnt/resize"

	"github.com/Facepunch/sbox-voxelatlas/ttesting"
)

var (
	red   = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	green = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	blue  = color.NRGBA{0x00, 0x00, 0xff, 0xff}
)

func closeTo(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func assertSolid(t *testing.T, name string, img *image.RGBA, want color.NRGBA) {
	t.Helper()
	w := color.RGBAModel.Convert(want).(color.RGBA)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			got := img.RGBAAt(x, y)
			if !closeTo(got.R, w.R) || !closeTo(got.G, w.G) || !closeTo(got.B, w.B) || !closeTo(got.A, w.A) {
				t.Fatalf("%s: pixel (%d, %d) is %v; want %v", name, x, y, got, w)
			}
		}
	}
}

func TestScanSortsByName(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "sprites")
	ttesting.WriteSprite(t, dir, "b", 32, red)
	ttesting.WriteSprite(t, dir, "a_2", 32, green)
	ttesting.WriteSprite(t, dir, "a", 32, blue)
	ttesting.WriteSprite(t, dir, "C", 32, red)

	entries, err := Scan(base, "sprites", 32)
	if err != nil {
		t.Fatalf("failed to scan: %s", err)
	}

	wantNames := []string{"C", "a", "a_2", "b"}
	ttesting.AssertEqualInt(t, "sprite count", len(entries), len(wantNames))
	for i, want := range wantNames {
		if i >= len(entries) {
			break
		}
		ttesting.AssertEqualString(t, "name "+want, entries[i].Name, want)
		ttesting.AssertEqualString(t, "path "+want, entries[i].RelativePath, "sprites/"+want+".png")
		ttesting.AssertEqualPoint(t, "size "+want, entries[i].Pixels.Bounds().Size(), image.Pt(32, 32))
	}
	assertSolid(t, "a", entries[1].Pixels, blue)
}

func TestScanStretchesToTileSize(t *testing.T) {
	base := t.TempDir()
	ttesting.WriteSprite(t, base, "small", 16, green)
	ttesting.WritePNG(t, base, "wide.png", ttesting.SolidImage(40, 10, red))

	for _, tileSize := range []int{8, 32, 33} {
		entries, err := Scan(base, "", tileSize)
		if err != nil {
			t.Fatalf("failed to scan at tile size %d: %s", tileSize, err)
		}
		ttesting.AssertEqualInt(t, "sprite count", len(entries), 2)
		for _, e := range entries {
			ttesting.AssertEqualPoint(t, e.Name+" size", e.Pixels.Bounds().Size(), image.Pt(tileSize, tileSize))
		}
		assertSolid(t, "small", entries[0].Pixels, green)
		assertSolid(t, "wide", entries[1].Pixels, red)
	}
}

func TestScanBilinear(t *testing.T) {
	base := t.TempDir()
	ttesting.WriteSprite(t, base, "s", 16, blue)

	l := &Loader{Interpolation: resize.Bilinear}
	entries, err := l.Scan(base, ".", 48)
	if err != nil {
		t.Fatalf("failed to scan: %s", err)
	}
	ttesting.AssertEqualInt(t, "sprite count", len(entries), 1)
	assertSolid(t, "s", entries[0].Pixels, blue)
	ttesting.AssertEqualString(t, "path", entries[0].RelativePath, "s.png")
}

func TestScanIgnoresNonSprites(t *testing.T) {
	base := t.TempDir()
	ttesting.WriteSprite(t, base, "keep", 4, red)
	ttesting.WriteSprite(t, base, ".hidden", 4, red)
	ttesting.WriteSprite(t, filepath.Join(base, "nested"), "deep", 4, red)
	ttesting.WriteFile(t, base, "notes.txt", []byte("not an image"))
	ttesting.WritePNG(t, base, "UPPER.PNG", ttesting.SolidImage(4, 4, green))

	entries, err := Scan(base, "", 4)
	if err != nil {
		t.Fatalf("failed to scan: %s", err)
	}
	ttesting.AssertEqualInt(t, "sprite count", len(entries), 3)
	if len(entries) == 3 {
		ttesting.AssertEqualString(t, "first", entries[0].Name, ".hidden")
		ttesting.AssertEqualString(t, "second", entries[1].Name, "UPPER")
		ttesting.AssertEqualString(t, "third", entries[2].Name, "keep")
	}
}

func TestScanMissingFolder(t *testing.T) {
	base := t.TempDir()
	_, err := Scan(base, "nope", 32)
	if err == nil {
		t.Fatalf("scan of missing folder succeeded")
	}
	if !IsIOError(err) {
		t.Errorf("got %v; want an IOError", err)
	}

	ttesting.WriteFile(t, base, "file", []byte("x"))
	if _, err := Scan(base, "file", 32); !IsIOError(err) {
		t.Errorf("scan of a plain file: got %v; want an IOError", err)
	}
}

func TestScanDecodeError(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "sprites")
	ttesting.WriteSprite(t, dir, "good", 8, red)
	ttesting.WriteFile(t, dir, "bad.png", []byte("definitely not a png"))

	_, err := Scan(base, "sprites", 8)
	if err == nil {
		t.Fatalf("scan with corrupt sprite succeeded")
	}
	if !IsDecodeError(err) {
		t.Errorf("got %v; want a DecodeError", err)
	}
	le, ok := err.(*LoadError)
	if !ok {
		t.Fatalf("got %T; want *LoadError", err)
	}
	ttesting.AssertEqualString(t, "offending path", le.Path, "sprites/bad.png")
}

func TestScanRejectsTileSize(t *testing.T) {
	if _, err := Scan(t.TempDir(), "", 0); err == nil {
		t.Errorf("scan with tile size 0 succeeded")
	}
	base := t.TempDir()
	ttesting.WriteSprite(t, base, "tiny", 4, red)
	if _, err := Scan(base, "", 1<<30); err == nil {
		t.Errorf("scan with tile size 1<<30 succeeded")
	}
}

func TestSortEntriesStable(t *testing.T) {
	entries := []Entry{
		{RelativePath: "x/dup.png", Name: "dup"},
		{RelativePath: "x/b.png", Name: "b"},
		{RelativePath: "y/dup.png", Name: "dup"},
		{RelativePath: "x/a.png", Name: "a"},
		{RelativePath: "z/dup.png", Name: "dup"},
	}
	sortEntries(entries)

	want := []string{"x/a.png", "x/b.png", "x/dup.png", "y/dup.png", "z/dup.png"}
	for i, w := range want {
		ttesting.AssertEqualString(t, "order", entries[i].RelativePath, w)
	}
}

func TestFitCopiesExactSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 14))
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			src.SetNRGBA(x, y, color.NRGBA{uint8(x * 10), uint8(y * 10), 0, 0xff})
		}
	}

	dst := Fit(src, 4, resize.Lanczos3)
	ttesting.AssertEqualPoint(t, "origin", dst.Bounds().Min, image.Pt(0, 0))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := dst.RGBAAt(x, y)
			want := color.RGBA{uint8((x + 10) * 10), uint8((y + 10) * 10), 0, 0xff}
			if got != want {
				t.Errorf("pixel (%d, %d) is %v; want %v", x, y, got, want)
			}
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	for name, want := range map[string]resize.InterpolationFunction{
		"nearest":  resize.NearestNeighbor,
		"Bilinear": resize.Bilinear,
		"lanczos3": resize.Lanczos3,
	} {
		got, err := ParseInterpolation(name)
		if err != nil {
			t.Errorf("ParseInterpolation(%q) failed: %s", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseInterpolation(%q) = %v; want %v", name, got, want)
		}
	}
	if _, err := ParseInterpolation("smooth"); err == nil {
		t.Errorf("ParseInterpolation(smooth) succeeded")
	}
}

func TestLoadErrorCause(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "s")
	p := ttesting.WriteSprite(t, dir, "gone", 4, red)
	if err := os.Chmod(p, 0); err != nil {
		t.Skipf("cannot chmod: %s", err)
	}
	defer os.Chmod(p, 0644)

	if f, err := os.Open(p); err == nil {
		// Running as root; permissions are not enforced.
		f.Close()
		t.Skip("file still readable after chmod 0")
	}

	_, err := Scan(base, "s", 4)
	if !IsIOError(err) {
		t.Errorf("got %v; want an IOError", err)
	}
}
