// Command atlasrebuild regenerates every atlas image under a directory from
// the manifests and sprite folders it finds there.
package main

import (
	"flag"
	"fmt"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"github.com/Facepunch/sbox-voxelatlas/atlas"
	"github.com/Facepunch/sbox-voxelatlas/pack"
	"github.com/Facepunch/sbox-voxelatlas/rebuild"
	"github.com/Facepunch/sbox-voxelatlas/sprite"
)

var (
	root          = flag.String("root", "", "directory to search for manifests; defaults to the working directory")
	delay         = flag.Duration("delay", 0, "pause between manifests")
	maxWidth      = flag.Int("max_width", pack.DefaultMaxWidth, "maximum atlas width in pixels")
	interpolation = flag.String("interpolation", "nearest", "how to stretch sprites that are not tile sized")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	dir, err := rebuild.Root(*root)
	if err != nil {
		glog.Exitln(err)
	}
	interp, err := sprite.ParseInterpolation(*interpolation)
	if err != nil {
		glog.Exitln(err)
	}

	s := &rebuild.Service{
		Options: atlas.Options{
			Loader:   &sprite.Loader{Interpolation: interp},
			MaxWidth: *maxWidth,
		},
		Delay: *delay,
	}
	results, err := s.RebuildAll(dir)
	if err != nil {
		glog.Exitln(err)
	}

	for _, r := range results {
		if r.OK() {
			fmt.Printf("ok\t%s\t%d sprites\n", r.Path, r.Sprites)
		} else {
			fmt.Printf("FAIL\t%s\t%v\n", r.Path, r.Err)
		}
	}

	failed := rebuild.Failed(results)
	glog.Infof("rebuilt %d of %d atlases", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		os.Exit(1)
	}
}
