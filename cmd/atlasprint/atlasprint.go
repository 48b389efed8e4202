// Command atlasprint draws the packed preview of an atlas, or one of its
// sprites, on the terminal.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/vincent-petithory/dataurl"

	"github.com/Facepunch/sbox-voxelatlas/atlas"
	"github.com/Facepunch/sbox-voxelatlas/pack"
	"github.com/Facepunch/sbox-voxelatlas/paths"
)

var (
	mode     = flag.String("mode", "tight", "pack mode to preview: tight or canvas")
	spriteID = flag.Int("sprite", -1, "index of a single sprite to print instead of the whole atlas")
	maxWidth = flag.Int("max_width", pack.DefaultMaxWidth, "maximum atlas width in pixels")
	col      = flag.Bool("col", true, "whether to use colors at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to let rasterm pick kitty, iterm or sixel output")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink the image to fit the terminal")
	asURL    = flag.Bool("dataurl", false, "print a data: URL of the PNG instead of drawing it")

	manifestPath string
)

func parseMode(s string) (pack.Mode, error) {
	switch s {
	case "tight":
		return pack.Tight, nil
	case "canvas":
		return pack.Canvas, nil
	}
	return 0, fmt.Errorf("unknown mode %q; want tight or canvas", s)
}

func printDataURL(img image.Image) error {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return err
	}
	byt, err := dataurl.New(buf.Bytes(), "image/png").MarshalText()
	if err != nil {
		return err
	}
	fmt.Println(string(byt))
	return nil
}

func main() {
	paths.SetupManifestFlag("manifest", &manifestPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if manifestPath == "" {
		glog.Exitln("no manifest given, and none found in the working directory; pass -manifest")
	}
	m, err := parseMode(*mode)
	if err != nil {
		glog.Exitln(err)
	}

	a, err := atlas.LoadWithOptions(manifestPath, atlas.Options{MaxWidth: *maxWidth})
	if a == nil {
		glog.Exitln(err)
	}
	if err != nil {
		glog.Warningf("previewing %s without sprites: %v", manifestPath, err)
	}

	if *spriteID >= 0 {
		entries := a.Sprites()
		if *spriteID >= len(entries) {
			glog.Exitf("sprite %d out of range; atlas has %d sprites", *spriteID, len(entries))
		}
		e := entries[*spriteID]
		glog.Infof("sprite %d: %s (%s)", *spriteID, e.Name, e.RelativePath)
		if *asURL {
			err = printDataURL(e.Pixels)
		} else {
			err = out(e.Pixels, e.Name+".png")
		}
	} else {
		img := a.Pack(m)
		if *asURL {
			err = printDataURL(img.Pixels)
		} else {
			err = outPacked(img)
		}
	}
	if err != nil {
		glog.Errorln(err)
		os.Exit(1)
	}
}
