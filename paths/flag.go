package paths

import (
	"flag"
	"os"
)

// SetupManifestFlag creates a new string flag with the passed name with a
// sane default for the manifest path: the only manifest in the working
// directory, if there is exactly one. If not, the flag defaults to an empty
// string.
func SetupManifestFlag(flagName string, flagPtr *string) {
	def := ""
	if wd, err := os.Getwd(); err == nil {
		def = Find(wd)
	}
	flag.StringVar(flagPtr, flagName, def, "Path to the atlas manifest (*"+ManifestSuffix+")")
}
