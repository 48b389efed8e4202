// Command atlasctl creates, edits and saves a single atlas.
//
// Typical use:
//
//	atlasctl -create -manifest terrain.atlas.json -sprite_folder textures/terrain -save
//	atlasctl -manifest terrain.atlas.json -tile_size 64 -save
//
// Edits without -save are only previewed; nothing but the initial manifest
// written by -create reaches the disk.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"github.com/Facepunch/sbox-voxelatlas/atlas"
	"github.com/Facepunch/sbox-voxelatlas/imageprint"
	"github.com/Facepunch/sbox-voxelatlas/pack"
	"github.com/Facepunch/sbox-voxelatlas/paths"
	"github.com/Facepunch/sbox-voxelatlas/sprite"
)

var (
	create        = flag.Bool("create", false, "create a new manifest at -manifest instead of loading one")
	tileSize      = flag.Int("tile_size", 0, "change the tile size; sprites are reloaded at the new size")
	spriteFolder  = flag.String("sprite_folder", "", "change the sprite folder; relative to the working directory")
	maxWidth      = flag.Int("max_width", pack.DefaultMaxWidth, "maximum atlas width in pixels")
	interpolation = flag.String("interpolation", "nearest", "how to stretch sprites that are not tile sized: nearest, bilinear, bicubic, mitchell, lanczos2 or lanczos3")
	save          = flag.Bool("save", false, "write the manifest and the packed image")
	reload        = flag.Bool("reload", false, "rescan the sprite folder before anything else")

	manifestPath string
)

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func open(opts atlas.Options) (*atlas.Atlas, error) {
	if !*create {
		return atlas.LoadWithOptions(manifestPath, opts)
	}
	if !paths.IsManifest(manifestPath) {
		glog.Warningf("%s does not end in %s; atlasrebuild will not find it", manifestPath, paths.ManifestSuffix)
	}
	a := atlas.CreateWithOptions(manifestPath, opts)
	if err := a.SaveManifest(); err != nil {
		return nil, err
	}
	glog.Infof("created %s", manifestPath)
	return a, nil
}

func run() error {
	interp, err := sprite.ParseInterpolation(*interpolation)
	if err != nil {
		return err
	}
	opts := atlas.Options{
		Loader:   &sprite.Loader{Interpolation: interp},
		MaxWidth: *maxWidth,
	}

	a, err := open(opts)
	if a == nil {
		return err
	}
	if err != nil {
		// The manifest loaded, its sprites did not. Edits below may fix that.
		glog.Warningln(err)
	}

	if *reload {
		if err := a.Reload(); err != nil {
			return err
		}
	}
	if *spriteFolder != "" {
		folder, err := filepath.Abs(*spriteFolder)
		if err != nil {
			return err
		}
		if err := a.SetSpriteFolder(folder); err != nil {
			return err
		}
		glog.Infof("sprite folder is now %s", a.SpriteFolder())
	}
	if flagWasSet("tile_size") {
		if err := a.SetTileSize(*tileSize); err != nil {
			return err
		}
		glog.Infof("tile size is now %d", a.TileSize())
	}

	fmt.Printf("%s: folder %q, %s\n", a.ManifestPath(), a.SpriteFolder(), imageprint.Summary(a.Pack(pack.Tight)))

	if *save {
		if err := a.Save(); err != nil {
			return err
		}
		fmt.Printf("wrote %s and %s\n", a.ManifestPath(), a.ImagePath())
	}
	return nil
}

func main() {
	paths.SetupManifestFlag("manifest", &manifestPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if manifestPath == "" {
		glog.Exitln("no manifest given, and none found in the working directory; pass -manifest")
	}

	if err := run(); err != nil {
		glog.Errorln(err)
		os.Exit(1)
	}
}
