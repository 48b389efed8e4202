package ttesting

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// SolidImage returns a w by h image filled with c.
func SolidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, nc)
		}
	}
	return img
}

// WritePNG encodes img as a PNG file at dir/name, creating dir if needed,
// and returns the full path.
func WritePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %q: %s", dir, err)
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create %q: %s", p, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %q: %s", p, err)
	}
	return p
}

// WriteSprite writes a solid size by size sprite named name+".png" into dir.
func WriteSprite(t *testing.T, dir, name string, size int, c color.Color) string {
	t.Helper()
	return WritePNG(t, dir, name+".png", SolidImage(size, size, c))
}

// WriteFile writes raw bytes to dir/name, creating dir if needed.
func WriteFile(t *testing.T, dir, name string, b []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %q: %s", dir, err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, b, 0644); err != nil {
		t.Fatalf("failed to write %q: %s", p, err)
	}
	return p
}

// ReadPNG decodes the PNG file at p.
func ReadPNG(t *testing.T, p string) image.Image {
	t.Helper()
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("failed to open %q: %s", p, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode %q: %s", p, err)
	}
	return img
}
