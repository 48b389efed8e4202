// Package paths normalizes the paths stored in atlas manifests and derives
// the names of files that live next to a manifest.
//
// Paths stored in a manifest (or reported for a sprite) always use forward
// slashes, regardless of the host platform, so that a manifest written on
// one machine resolves identically on another.
package paths

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ManifestSuffix is the dual suffix every atlas manifest file carries.
const ManifestSuffix = ".atlas.json"

// ImageExt is the extension of the exported atlas image.
const ImageExt = ".png"

// Clean converts p to forward slashes and cleans it lexically. An empty
// path stays empty; it means "the manifest's own directory".
func Clean(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// Rel returns target relative to base, slash-separated. If only one of them
// is absolute, both are made absolute first.
func Rel(base, target string) (string, error) {
	if filepath.IsAbs(base) != filepath.IsAbs(target) {
		var err error
		if base, err = filepath.Abs(base); err != nil {
			return "", errors.Wrap(err, "resolving base path")
		}
		if target, err = filepath.Abs(target); err != nil {
			return "", errors.Wrap(err, "resolving target path")
		}
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", errors.Wrapf(err, "relativizing %q against %q", target, base)
	}
	return filepath.ToSlash(rel), nil
}

// Resolve returns the host path of rel interpreted against baseDir. An
// absolute rel is returned as-is, converted to host separators.
func Resolve(baseDir, rel string) string {
	p := filepath.FromSlash(rel)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// IsManifest reports whether name looks like an atlas manifest file name.
// The comparison ignores case.
func IsManifest(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	return len(base) > len(ManifestSuffix) && strings.HasSuffix(base, ManifestSuffix)
}

// ImagePath returns the path of the image exported for the passed manifest:
// a sibling file with the manifest's dual suffix replaced by ImageExt.
//
// For example, "blocks/terrain.atlas.json" maps to "blocks/terrain.png".
func ImagePath(manifestPath string) string {
	dir, base := filepath.Split(manifestPath)
	if IsManifest(base) {
		base = base[:len(base)-len(ManifestSuffix)]
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(dir, base+ImageExt)
}
