// Package web serves a live preview of one atlas over HTTP, and accepts the
// same edits the command line controller does.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/trace"
	"golang.org/x/sync/singleflight"

	"github.com/Facepunch/sbox-voxelatlas/atlas"
	"github.com/Facepunch/sbox-voxelatlas/pack"
)

// Handler serves previews and edits of a single atlas.
type Handler struct {
	mu sync.Mutex
	a  *atlas.Atlas
	// revision is bumped whenever the sprites or tile size change, and is
	// part of every ETag.
	revision int
	epoch    string

	renders singleflight.Group
}

// NewHandler constructs a web handler serving a. The handler takes
// ownership of a; callers must not use it afterwards.
func NewHandler(a *atlas.Atlas) *Handler {
	return &Handler{
		a:     a,
		epoch: strconv.FormatInt(time.Now().UnixNano(), 36),
	}
}

type info struct {
	ManifestPath  string
	ImagePath     string
	SpriteFolder  string
	TileSize      int
	MaxWidth      int
	Sprites       int
	SpritesPerRow int
	Revision      int
}

type spriteInfo struct {
	Index        int
	Name         string
	RelativePath string
	X, Y         int
	DataURL      string
}

// infoLocked must be called with h.mu held.
func (h *Handler) infoLocked() info {
	return info{
		ManifestPath:  h.a.ManifestPath(),
		ImagePath:     h.a.ImagePath(),
		SpriteFolder:  h.a.SpriteFolder(),
		TileSize:      h.a.TileSize(),
		MaxWidth:      h.a.MaxWidth(),
		Sprites:       h.a.Len(),
		SpritesPerRow: pack.SpritesPerRow(h.a.TileSize(), h.a.MaxWidth()),
		Revision:      h.revision,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		glog.Errorf("web: encoding response: %v", err)
	}
}

func (h *Handler) infoHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.infoLocked())
}

// etag returns the current ETag for a derived resource, and true if the
// request already has it.
func (h *Handler) etag(r *http.Request, what, mime string) (string, bool) {
	generation := 1 // bump if the way we generate it changes
	h.mu.Lock()
	rev := h.revision
	h.mu.Unlock()
	etag := fmt.Sprintf(`W/"atlas:%d:%s:%d:%s:%s"`, generation, h.epoch, rev, what, mime)
	return etag, r.Header.Get("If-None-Match") == etag
}

func notModified(w http.ResponseWriter, etag string) {
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// render packs the atlas. Concurrent requests for the same revision and mode
// share one pack.
func (h *Handler) render(mode pack.Mode) (*pack.Image, error) {
	h.mu.Lock()
	key := fmt.Sprintf("%d:%s", h.revision, mode)
	h.mu.Unlock()

	v, err, shared := h.renders.Do(key, func() (interface{}, error) {
		tr := trace.New("atlas.render", mode.String())
		defer tr.Finish()

		h.mu.Lock()
		defer h.mu.Unlock()
		img := h.a.Pack(mode)
		tr.LazyPrintf("packed %d sprites at tile size %d into %v", len(img.Placements), img.TileSize, img.Pixels.Bounds())
		if n := img.Overflow(); n > 0 {
			tr.LazyPrintf("%d sprites clipped", n)
		}
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		glog.V(2).Infof("web: shared %s render %s", mode, key)
	}
	return v.(*pack.Image), nil
}

func (h *Handler) pngHandler(mode pack.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mime := "image/png"
		etag, match := h.etag(r, mode.String(), mime)
		if match {
			notModified(w, etag)
			return
		}

		img, err := h.render(mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if img.Pixels.Bounds().Empty() || (mode == pack.Tight && len(img.Placements) == 0) {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img.Pixels); err != nil {
			http.Error(w, "image could not be encoded", http.StatusInternalServerError)
			glog.Errorf("web: encoding %s png: %v", mode, err)
			return
		}

		w.Header().Set("Content-Type", mime)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

// paletted converts img to a palette of at most 255 quantized colors, plus
// color.Transparent at index 0 so empty tiles stay empty.
func paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 255), img)

	pm := image.NewPaletted(b, append(color.Palette{color.Transparent}, pal...))
	draw.Draw(pm, b, img, b.Min, draw.Src)
	return pm
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	mime := "image/gif"
	etag, match := h.etag(r, pack.Tight.String(), mime)
	if match {
		notModified(w, etag)
		return
	}

	img, err := h.render(pack.Tight)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(img.Placements) == 0 || img.Pixels.Bounds().Empty() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := gif.Encode(&buf, paletted(img.Pixels), nil); err != nil {
		http.Error(w, "image could not be encoded", http.StatusInternalServerError)
		glog.Errorf("web: encoding gif: %v", err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) spritesHandler(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.a.Sprites()
	placements, _, _ := pack.Layout(len(entries), h.a.TileSize(), h.a.MaxWidth())

	out := make([]spriteInfo, 0, len(entries))
	for i, e := range entries {
		si := spriteInfo{
			Index:        i,
			Name:         e.Name,
			RelativePath: e.RelativePath,
			X:            placements[i].X,
			Y:            placements[i].Y,
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, e.Pixels); err == nil {
			si.DataURL = dataurl.New(buf.Bytes(), "image/png").String()
		}
		out = append(out, si)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) spriteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return
	}

	mime := "image/png"
	etag, match := h.etag(r, "sprite:"+vars["idx"], mime)
	if match {
		notModified(w, etag)
		return
	}

	h.mu.Lock()
	entries := h.a.Sprites()
	h.mu.Unlock()
	if idx < 0 || idx >= len(entries) {
		http.Error(w, "no such sprite", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, entries[idx].Pixels)
}

// edit runs fn under the lock, bumps the revision if fn reports a change,
// and answers with the resulting atlas info.
func (h *Handler) edit(w http.ResponseWriter, what string, fn func() error) {
	tr := trace.New("atlas.edit", what)
	defer tr.Finish()

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := fn(); err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		glog.Warningf("web: %s: %v", what, err)
		status := http.StatusInternalServerError
		if atlas.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	h.revision++
	tr.LazyPrintf("now at revision %d", h.revision)
	writeJSON(w, http.StatusOK, h.infoLocked())
}

func (h *Handler) tileSizeHandler(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.FormValue("tile_size"))
	if err != nil {
		http.Error(w, "tile_size not a number", http.StatusBadRequest)
		return
	}
	h.edit(w, "set tile size", func() error { return h.a.SetTileSize(n) })
}

func (h *Handler) spriteFolderHandler(w http.ResponseWriter, r *http.Request) {
	folder := r.FormValue("sprite_folder")
	h.edit(w, "set sprite folder", func() error { return h.a.SetSpriteFolder(folder) })
}

func (h *Handler) reloadHandler(w http.ResponseWriter, r *http.Request) {
	h.edit(w, "reload", h.a.Reload)
}

func (h *Handler) saveHandler(w http.ResponseWriter, r *http.Request) {
	h.edit(w, "save", func() error {
		return errors.Wrap(h.a.Save(), "saving")
	})
}

// RegisterRoutes adds the /atlas routes to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/atlas", h.infoHandler).Methods(http.MethodGet)
	r.HandleFunc("/atlas/preview.png", h.pngHandler(pack.Tight)).Methods(http.MethodGet)
	r.HandleFunc("/atlas/canvas.png", h.pngHandler(pack.Canvas)).Methods(http.MethodGet)
	r.HandleFunc("/atlas/preview.gif", h.gifHandler).Methods(http.MethodGet)
	r.HandleFunc("/atlas/sprites", h.spritesHandler).Methods(http.MethodGet)
	r.HandleFunc("/atlas/sprites/{idx:[0-9]+}.png", h.spriteHandler).Methods(http.MethodGet)

	r.HandleFunc("/atlas/tile_size", h.tileSizeHandler).Methods(http.MethodPost)
	r.HandleFunc("/atlas/sprite_folder", h.spriteFolderHandler).Methods(http.MethodPost)
	r.HandleFunc("/atlas/reload", h.reloadHandler).Methods(http.MethodPost)
	r.HandleFunc("/atlas/save", h.saveHandler).Methods(http.MethodPost)
}
