package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Find locates the single atlas manifest directly inside dir and returns
// its path.
//
// An empty string is returned when dir holds no manifest, or more than one,
// since there is no sane default to pick in that case.
func Find(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	found := ""
	for _, e := range entries {
		if e.IsDir() || !IsManifest(e.Name()) {
			continue
		}
		if found != "" {
			glog.V(1).Infof("paths.Find(%q): more than one manifest, not picking a default", dir)
			return ""
		}
		found = filepath.Join(dir, e.Name())
	}

	if found != "" {
		glog.Infof("paths.Find(%q)=%s", dir, found)
	}
	return found
}

// FindAll walks root recursively and returns every atlas manifest under it
// in lexical walk order.
//
// Hidden files and directories are ignored, otherwise we end up fighting
// with things like version control metadata and Spotlight. Only a failure
// to read root itself is returned; unreadable entries below it are logged
// and skipped.
func FindAll(root string) ([]string, error) {
	var manifests []string
	err := filepath.Walk(root, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			if file == root {
				return err
			}
			glog.Warningf("paths.FindAll(%q): skipping %s: %v", root, file, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if file != root && info.Name()[0] == '.' {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !IsManifest(file) {
			return nil
		}

		manifests = append(manifests, file)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %q for manifests", root)
	}

	return manifests, nil
}
