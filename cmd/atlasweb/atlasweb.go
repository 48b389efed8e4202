// Command atlasweb serves a live preview of one atlas over HTTP.
//
// Besides the routes registered by package web, /debug/requests shows
// traces of recent renders and edits.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace"

	"github.com/Facepunch/sbox-voxelatlas/atlas"
	"github.com/Facepunch/sbox-voxelatlas/pack"
	"github.com/Facepunch/sbox-voxelatlas/paths"
	"github.com/Facepunch/sbox-voxelatlas/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for atlasweb")
	maxWidth      = flag.Int("max_width", pack.DefaultMaxWidth, "maximum atlas width in pixels")
	banner        = flag.Bool("banner", true, "print a startup banner")

	manifestPath string
)

func main() {
	paths.SetupManifestFlag("manifest", &manifestPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if manifestPath == "" {
		glog.Exitln("no manifest given, and none found in the working directory; pass -manifest")
	}

	a, err := atlas.LoadWithOptions(manifestPath, atlas.Options{MaxWidth: *maxWidth})
	if a == nil {
		glog.Exitln(err)
	}
	if err != nil {
		glog.Warningf("serving %s without sprites until it is fixed: %v", manifestPath, err)
	}

	if *banner {
		figure.NewFigure("atlasweb", "", true).Print()
		fmt.Println()
	}

	r := mux.NewRouter()
	web.NewHandler(a).RegisterRoutes(r)
	r.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
	})
	// x/net/trace registers itself on the default mux.
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	h := handlers.CompressHandler(handlers.LoggingHandler(os.Stderr, r))

	glog.Infof("serving %s on %s", manifestPath, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, h))
}
