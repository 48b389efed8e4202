// Package atlas holds the state of one sprite atlas: where its manifest
// lives, which folder its sprites come from, the tile size, and the loaded
// sprites themselves.
//
// An Atlas is a plain value owned by whoever created or loaded it. Nothing
// in this package keeps a "current" atlas; replacing one simply means
// dropping the old value.
//
// The sprite list always satisfies two invariants: it is sorted by sprite
// name, and every sprite is exactly TileSize() pixels square. Operations
// that would change either the folder or the tile size reload the sprites
// first and only commit the change if the reload succeeds.
package atlas

import (
	"image/png"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/Facepunch/sbox-voxelatlas/manifest"
	"github.com/Facepunch/sbox-voxelatlas/pack"
	"github.com/Facepunch/sbox-voxelatlas/paths"
	"github.com/Facepunch/sbox-voxelatlas/sprite"
)

// DefaultTileSize is the tile size of a newly created atlas.
const DefaultTileSize = manifest.DefaultTileSize

// Options tune how an atlas loads and exports sprites. The zero value uses
// sprite.DefaultLoader and pack.DefaultMaxWidth.
type Options struct {
	Loader   *sprite.Loader
	MaxWidth int
}

// Atlas is one sprite atlas and its loaded sprites.
type Atlas struct {
	manifestPath string
	spriteFolder string
	tileSize     int
	sprites      []sprite.Entry

	loader   *sprite.Loader
	maxWidth int
}

// Create returns a new, empty atlas whose manifest will live at
// manifestPath. Nothing is written until SaveManifest or Save is called.
func Create(manifestPath string) *Atlas {
	return CreateWithOptions(manifestPath, Options{})
}

// CreateWithOptions is Create with explicit loader and width options.
func CreateWithOptions(manifestPath string, opts Options) *Atlas {
	a := &Atlas{
		manifestPath: filepath.Clean(manifestPath),
		tileSize:     DefaultTileSize,
		loader:       opts.Loader,
		maxWidth:     opts.MaxWidth,
	}
	if a.loader == nil {
		a.loader = sprite.DefaultLoader
	}
	if a.maxWidth <= 0 {
		a.maxWidth = pack.DefaultMaxWidth
	}
	return a
}

// Load reads the manifest at manifestPath and loads its sprites.
//
// If the manifest itself cannot be read or parsed, Load returns a nil
// Atlas. If only the sprites fail to load, the Atlas is returned with an
// empty sprite list together with the error, so the caller can still show
// it and fix the folder or tile size. A tile size wider than the atlas is
// rejected with a *ValidationError and a nil Atlas.
func Load(manifestPath string) (*Atlas, error) {
	return LoadWithOptions(manifestPath, Options{})
}

// LoadWithOptions is Load with explicit loader and width options.
func LoadWithOptions(manifestPath string, opts Options) (*Atlas, error) {
	m, err := manifest.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}

	a := CreateWithOptions(manifestPath, opts)
	if err := a.checkTileSize(m.TileSize); err != nil {
		return nil, errors.Wrapf(err, "loading atlas %q", manifestPath)
	}
	a.spriteFolder = paths.Clean(m.SpriteFolder)
	a.tileSize = m.TileSize
	glog.Infof("atlas.Load(%q): sprite folder %q, tile size %d", manifestPath, a.spriteFolder, a.tileSize)

	if err := a.Reload(); err != nil {
		return a, err
	}
	return a, nil
}

// ManifestPath returns where the manifest is saved.
func (a *Atlas) ManifestPath() string { return a.manifestPath }

// ImagePath returns where Save writes the packed image.
func (a *Atlas) ImagePath() string { return paths.ImagePath(a.manifestPath) }

// SpriteFolder returns the sprite folder relative to the manifest directory.
func (a *Atlas) SpriteFolder() string { return a.spriteFolder }

// TileSize returns the side length every loaded sprite is stretched to.
func (a *Atlas) TileSize() int { return a.tileSize }

// MaxWidth returns the width packs wrap at, and the side of the export canvas.
func (a *Atlas) MaxWidth() int { return a.maxWidth }

// Len returns the number of loaded sprites.
func (a *Atlas) Len() int { return len(a.sprites) }

// Sprites returns a copy of the loaded sprite list. The pixel buffers are
// shared and must not be modified.
func (a *Atlas) Sprites() []sprite.Entry {
	return append([]sprite.Entry(nil), a.sprites...)
}

// Manifest returns the persistent fields of the atlas.
func (a *Atlas) Manifest() manifest.Manifest {
	return manifest.Manifest{
		SpriteFolder: a.spriteFolder,
		TileSize:     a.tileSize,
	}
}

func (a *Atlas) baseDir() string {
	return filepath.Dir(a.manifestPath)
}

// scan loads sprites for a prospective folder and tile size without
// touching the atlas.
func (a *Atlas) scan(folder string, tileSize int) ([]sprite.Entry, error) {
	entries, err := a.loader.Scan(a.baseDir(), folder, tileSize)
	if err != nil {
		glog.Warningf("atlas %q: keeping %d previously loaded sprites: %v", a.manifestPath, len(a.sprites), err)
		return nil, errors.Wrapf(err, "reloading sprites for %q", a.manifestPath)
	}
	return entries, nil
}

// Reload rescans the sprite folder. On failure the previously loaded
// sprites are kept unchanged and the error is returned.
func (a *Atlas) Reload() error {
	entries, err := a.scan(a.spriteFolder, a.tileSize)
	if err != nil {
		return err
	}
	a.sprites = entries
	glog.V(1).Infof("atlas %q: loaded %d sprites", a.manifestPath, len(entries))
	return nil
}

func (a *Atlas) checkTileSize(n int) error {
	if n <= 0 || n > a.maxWidth {
		return &ValidationError{Field: "tile size", Value: n, Max: a.maxWidth}
	}
	return nil
}

// SetTileSize changes the tile size and reloads the sprites at the new
// size. n must be positive and no larger than MaxWidth. If the reload
// fails, the atlas keeps its old tile size and sprites.
func (a *Atlas) SetTileSize(n int) error {
	if err := a.checkTileSize(n); err != nil {
		return err
	}
	entries, err := a.scan(a.spriteFolder, n)
	if err != nil {
		return err
	}
	a.tileSize = n
	a.sprites = entries
	return nil
}

// SetSpriteFolder points the atlas at a different sprite folder and
// reloads. An absolute folder is stored relative to the manifest
// directory; a relative one is taken to be relative to it already. If the
// reload fails, the atlas keeps its old folder and sprites.
func (a *Atlas) SetSpriteFolder(folder string) error {
	if filepath.IsAbs(folder) {
		base, err := filepath.Abs(a.baseDir())
		if err != nil {
			return errors.Wrap(err, "resolving manifest directory")
		}
		if folder, err = paths.Rel(base, folder); err != nil {
			return err
		}
	}
	folder = paths.Clean(folder)

	entries, err := a.scan(folder, a.tileSize)
	if err != nil {
		return err
	}
	a.spriteFolder = folder
	a.sprites = entries
	return nil
}

// Pack packs the loaded sprites using the atlas's maximum width.
func (a *Atlas) Pack(mode pack.Mode) *pack.Image {
	return pack.Pack(a.sprites, a.tileSize, a.maxWidth, mode)
}

// SaveManifest writes the manifest file only.
func (a *Atlas) SaveManifest() error {
	if err := manifest.WriteFile(a.manifestPath, a.Manifest()); err != nil {
		return errors.Wrapf(err, "saving atlas %q", a.manifestPath)
	}
	return nil
}

// Save writes the manifest and the exported image next to it. The image is
// always a full Canvas pack.
func (a *Atlas) Save() error {
	if err := a.SaveManifest(); err != nil {
		return err
	}

	img := a.Pack(pack.Canvas)
	if n := img.Overflow(); n > 0 {
		glog.Warningf("atlas %q: %d of %d sprites do not fit in the %dx%d canvas and were clipped",
			a.manifestPath, n, len(img.Placements), a.maxWidth, a.maxWidth)
	}

	p := a.ImagePath()
	f, err := os.Create(p)
	if err != nil {
		return errors.Wrapf(err, "creating atlas image %q", p)
	}
	if err := png.Encode(f, img.Pixels); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding atlas image %q", p)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "writing atlas image %q", p)
	}

	glog.Infof("atlas %q: wrote %d sprites to %s", a.manifestPath, len(a.sprites), p)
	return nil
}
