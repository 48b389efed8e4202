// Package imageprint prints images on terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Style selects how pixels are turned into terminal output.
type Style int

const (
	// TrueColor changes the background using 24bit escape sequences.
	TrueColor Style = iota
	// Color256 uses the closest xterm 256color palette entry.
	Color256
	// NoColor uses ascii shading only. Only makes sense with Blanks=false.
	NoColor
	// ITerm sends the image inline using iTerm2's escape sequences.
	ITerm
	// RasTerm lets rasterm pick kitty, iTerm or sixel output.
	RasTerm
)

var styleNames = map[string]Style{
	"truecolor": TrueColor,
	"256":       Color256,
	"nocolor":   NoColor,
	"iterm":     ITerm,
	"rasterm":   RasTerm,
}

// ParseStyle maps a flag value onto a Style.
func ParseStyle(s string) (Style, error) {
	st, ok := styleNames[s]
	if !ok {
		return 0, errors.Errorf("unknown print style %q", s)
	}
	return st, nil
}

// Printer writes images to a terminal.
type Printer struct {
	W     io.Writer
	Style Style
	// Blanks prints colored spaces instead of shaded characters.
	Blanks bool
	// Name is sent to terminals that label inline images.
	Name string
}

type dumper interface {
	Printf(s string, arg ...interface{})
}

type writerDumper struct{ w io.Writer }

func (d writerDumper) Printf(s string, arg ...interface{}) {
	fmt.Fprintf(d.w, s, arg...)
}

type rgbDumper struct {
	w   io.Writer
	rgb color.RGBColor
}

func (d rgbDumper) Printf(s string, arg ...interface{}) {
	fmt.Fprint(d.w, d.rgb.Sprint(fmt.Sprintf(s, arg...)))
}

func (p *Printer) shade(col ic.Color) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if p.Style == NoColor {
			fmt.Fprint(p.W, "  ")
		} else {
			fmt.Fprint(p.W, "\x1b[0m  ")
		}
		return
	}

	var d dumper = writerDumper{p.W}
	switch p.Style {
	case TrueColor:
		fmt.Fprintf(p.W, "\x1b[48;2;%d;%d;%dm", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8))
	case Color256:
		d = rgbDumper{p.W, color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true)}
	}

	if p.Blanks {
		d.Printf("  ")
	} else {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			d.Printf("..")
		case a < 64:
			d.Printf("--")
		case a < 128:
			d.Printf("==")
		default:
			d.Printf("##")
		}
	}

	if p.Style == TrueColor {
		fmt.Fprint(p.W, "\x1b[0m")
	}
}

func (p *Printer) printCells(i image.Image) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			p.shade(i.At(x, y))
		}
		if p.Style != NoColor {
			fmt.Fprint(p.W, "\x1b[0m")
		}
		fmt.Fprint(p.W, "\n")
	}
}

// Print draws i in the printer's style.
func (p *Printer) Print(i image.Image) error {
	switch p.Style {
	case ITerm:
		return p.printITerm(i)
	case RasTerm:
		return p.printRasTerm(i)
	default:
		p.printCells(i)
		return nil
	}
}

// printITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func (p *Printer) printITerm(i image.Image) error {
	if !isTermItermWez() {
		return errors.New("terminal does not support iTerm2 inline images")
	}
	name := base64.StdEncoding.EncodeToString([]byte(p.Name))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return errors.Wrap(err, "encoding inline image")
	}
	bEnc.Close()
	fmt.Fprintf(p.W, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return nil
}
