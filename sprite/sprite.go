package sprite

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/Facepunch/sbox-voxelatlas/manifest"
	"github.com/Facepunch/sbox-voxelatlas/paths"
)

// Ext is the extension of files picked up as sprites. Matching ignores case.
const Ext = ".png"

// Entry is one loaded sprite.
type Entry struct {
	// RelativePath is the source file relative to the manifest directory,
	// always slash-separated.
	RelativePath string
	// Name is the source file's base name without extension.
	Name string
	// Pixels is exactly tileSize by tileSize, with its origin at (0, 0).
	Pixels *image.RGBA
}

// Loader scans sprite folders. The zero value is usable and stretches
// mismatched sprites with nearest-neighbor sampling.
type Loader struct {
	// Interpolation is used when a source image is not already the tile
	// size. The zero value is resize.NearestNeighbor.
	Interpolation resize.InterpolationFunction
}

// DefaultLoader is used by Scan.
var DefaultLoader = &Loader{}

// Scan loads the sprites in folder using DefaultLoader.
func Scan(baseDir, folder string, tileSize int) ([]Entry, error) {
	return DefaultLoader.Scan(baseDir, folder, tileSize)
}

// Scan resolves folder against baseDir and loads every sprite file directly
// inside it, stretched to tileSize by tileSize. The result is sorted by
// Name; entries with equal names keep their scan order.
//
// A missing folder yields an *IOError. A file that cannot be opened or
// decoded stops the scan with a *LoadError naming it.
func (l *Loader) Scan(baseDir, folder string, tileSize int) ([]Entry, error) {
	if tileSize <= 0 {
		return nil, errors.Errorf("sprite: tile size %d is not positive", tileSize)
	}
	if tileSize > manifest.MaxTileSize {
		return nil, errors.Errorf("sprite: tile size %d exceeds %d", tileSize, manifest.MaxTileSize)
	}

	dir := paths.Resolve(baseDir, folder)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &IOError{Path: dir, Err: errors.New("not a directory")}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Path: dir, Err: err}
	}

	var entries []Entry
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.EqualFold(filepath.Ext(name), Ext) {
			continue
		}

		full := filepath.Join(dir, name)
		rel, err := paths.Rel(baseDir, full)
		if err != nil {
			return nil, errors.Wrap(err, "computing sprite path")
		}

		pixels, err := l.load(full, tileSize)
		if err != nil {
			return nil, &LoadError{Path: rel, Err: err}
		}

		entries = append(entries, Entry{
			RelativePath: rel,
			Name:         strings.TrimSuffix(name, filepath.Ext(name)),
			Pixels:       pixels,
		})
		glog.V(2).Infof("sprite.Scan: loaded %s", rel)
	}

	sortEntries(entries)
	glog.V(1).Infof("sprite.Scan(%q, %q, %d): %d sprites", baseDir, folder, tileSize, len(entries))
	return entries, nil
}

func (l *Loader) load(file string, tileSize int) (*image.RGBA, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, &IOError{Path: file, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: file, Err: err}
	}

	return Fit(img, tileSize, l.Interpolation), nil
}

// sortEntries orders entries by name using plain byte-wise comparison.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}
