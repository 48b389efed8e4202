// Package rebuild regenerates every atlas image under a directory tree from
// its manifest and sprite folder.
package rebuild

import (
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Facepunch/sbox-voxelatlas/atlas"
	"github.com/Facepunch/sbox-voxelatlas/paths"
)

// Result is the outcome of rebuilding one manifest.
type Result struct {
	// Path is the manifest path.
	Path string
	// ImagePath is where the packed image was (or would have been) written.
	ImagePath string
	// Sprites is the number of sprites packed. Zero on failure.
	Sprites int
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// Service rebuilds atlases one at a time.
type Service struct {
	// Options are passed to every loaded atlas.
	Options atlas.Options
	// Delay is slept between manifests, so a long batch does not hog the
	// disk. Zero means no pause.
	Delay time.Duration
}

// RebuildAll rebuilds every manifest under root using default options.
func RebuildAll(root string) ([]Result, error) {
	return (&Service{}).RebuildAll(root)
}

// RebuildAll finds every manifest under root and rebuilds each in turn.
// Results are in walk order, one per manifest. A failing manifest is
// recorded in its Result and does not stop the rest; only a failure to walk
// root itself is returned as an error.
func (s *Service) RebuildAll(root string) ([]Result, error) {
	manifests, err := paths.FindAll(root)
	if err != nil {
		return nil, errors.Wrapf(err, "finding manifests under %q", root)
	}
	glog.Infof("rebuild: %d manifests under %s", len(manifests), root)

	results := make([]Result, 0, len(manifests))
	for i, p := range manifests {
		if i > 0 && s.Delay > 0 {
			time.Sleep(s.Delay)
		}
		r := s.Rebuild(p)
		if !r.OK() {
			glog.Errorf("rebuild: %s: %v", p, r.Err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Rebuild loads one manifest, rescans its sprites, and saves both the
// normalized manifest and the packed image.
func (s *Service) Rebuild(manifestPath string) Result {
	r := Result{
		Path:      manifestPath,
		ImagePath: paths.ImagePath(manifestPath),
	}

	a, err := atlas.LoadWithOptions(manifestPath, s.Options)
	if err != nil {
		r.Err = err
		return r
	}
	if err := a.Save(); err != nil {
		r.Err = err
		return r
	}

	r.Sprites = a.Len()
	glog.Infof("rebuild: %s: packed %d sprites into %s", manifestPath, r.Sprites, r.ImagePath)
	return r
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Root returns dir, or the working directory when dir is empty.
func Root(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getting working directory")
	}
	return wd, nil
}
