// Package web serves a directory of sprite packages over HTTP.
package web

import (
	"bytes"
	"fmt"
	"image/gif"
	"image/png"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-rsi/anim"
	"badc0de.net/pkg/go-rsi/rsi"
)

// generation is bumped whenever the way responses are generated changes.
const generation = 1

// Options control a Handler. A nil *Options is the same as the zero value.
type Options struct {
	// MaxAge is sent in Cache-Control. Zero sends no-cache.
	MaxAge time.Duration
	// Parallelism is passed on when packages are decoded.
	Parallelism int
}

type loaded struct {
	r       *rsi.Rsi
	enc     *rsi.Encoded
	sheets  map[string][]byte
	modTime time.Time
}

// Handler exposes every <name>.rsi directory at the root of an fs.FS.
type Handler struct {
	root fs.FS
	opts Options

	mu    sync.Mutex
	cache map[string]*loaded
}

// NewHandler constructs a web handler for the packages found in root.
func NewHandler(root fs.FS, opts *Options) *Handler {
	if opts == nil {
		opts = &Options{}
	}
	return &Handler{
		root:  root,
		opts:  *opts,
		cache: map[string]*loaded{},
	}
}

// RegisterRoutes adds the handler's routes to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/rsi/{pkg}/", h.packageHandler)
	r.HandleFunc("/rsi/{pkg}/meta.json", h.metaHandler)
	r.HandleFunc("/rsi/{pkg}/{state}.png", h.sheetHandler)
	r.HandleFunc("/rsi/{pkg}/{state}/{dir:[0-9]+}/{frame:[0-9]+}.png", h.frameHandler)
	r.HandleFunc("/rsi/{pkg}/{state}/{dir:[0-9]+}.gif", h.gifHandler)
}

// Packages returns the names of the packages under the root, sorted.
func (h *Handler) Packages() ([]string, error) {
	entries, err := fs.ReadDir(h.root, ".")
	if err != nil {
		return nil, errors.Wrap(err, "web: listing packages")
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), ".rsi") {
			names = append(names, strings.TrimSuffix(e.Name(), ".rsi"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// load returns the named package, decoding it again if its meta.json changed
// since it was cached.
func (h *Handler) load(name string) (*loaded, error) {
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fs.ErrNotExist
	}
	dir := name + ".rsi"
	fi, err := fs.Stat(h.root, path.Join(dir, rsi.MetaFileName))
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if l, ok := h.cache[name]; ok && l.modTime.Equal(fi.ModTime()) {
		return l, nil
	}

	tr := trace.New("web.load", name)
	defer tr.Finish()

	sub, err := fs.Sub(h.root, dir)
	if err != nil {
		tr.SetError()
		return nil, err
	}
	r, err := rsi.OpenFS(sub, &rsi.DecodeOptions{Parallelism: h.opts.Parallelism})
	if err != nil {
		tr.LazyPrintf("decode: %v", err)
		tr.SetError()
		return nil, err
	}
	enc, err := rsi.Encode(r, &rsi.EncodeOptions{Parallelism: h.opts.Parallelism})
	if err != nil {
		tr.LazyPrintf("encode: %v", err)
		tr.SetError()
		return nil, err
	}
	l := &loaded{r: r, enc: enc, sheets: map[string][]byte{}, modTime: fi.ModTime()}
	for _, s := range enc.Sheets {
		l.sheets[s.Name] = s.PNG
	}
	tr.LazyPrintf("%d states", r.Len())
	glog.V(1).Infof("web: loaded package %q with %d states", name, r.Len())
	h.cache[name] = l
	return l, nil
}

// loadOrFail writes an error response and returns nil when the package in
// the request cannot be served.
func (h *Handler) loadOrFail(w http.ResponseWriter, name string) *loaded {
	l, err := h.load(name)
	switch {
	case err == nil:
		return l
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "no such package", http.StatusNotFound)
	default:
		glog.Errorf("web: loading package %q: %v", name, err)
		http.Error(w, "package could not be loaded", http.StatusInternalServerError)
	}
	return nil
}

func (h *Handler) etag(l *loaded, kind, pkg, key, mime string) string {
	return fmt.Sprintf(`W/"%s:%d:%s:%x:%s:%s"`, kind, generation, pkg, l.modTime.UnixNano(), key, mime)
}

// notModified sets the caching headers and reports whether the client
// already holds the response.
func (h *Handler) notModified(w http.ResponseWriter, r *http.Request, l *loaded, etag string) bool {
	if h.opts.MaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.opts.MaxAge.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}
	w.Header().Set("ETag", etag)
	if !l.modTime.IsZero() {
		w.Header().Set("Last-Modified", l.modTime.UTC().Format(http.TimeFormat))
	}
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (h *Handler) metaHandler(w http.ResponseWriter, r *http.Request) {
	pkg := mux.Vars(r)["pkg"]
	l := h.loadOrFail(w, pkg)
	if l == nil {
		return
	}

	mime := "application/json"
	if h.notModified(w, r, l, h.etag(l, "meta", pkg, "", mime)) {
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(l.enc.Meta)
}

func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	l := h.loadOrFail(w, vars["pkg"])
	if l == nil {
		return
	}
	sheet, ok := l.sheets[vars["state"]]
	if !ok {
		http.Error(w, "no such state", http.StatusNotFound)
		return
	}

	mime := "image/png"
	if h.notModified(w, r, l, h.etag(l, "sheet", vars["pkg"], vars["state"], mime)) {
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(sheet)
}

// parseScale reads the optional scale query parameter.
func parseScale(r *http.Request) (int, error) {
	v := r.URL.Query().Get("scale")
	if v == "" {
		return 1, nil
	}
	scale, err := strconv.Atoi(v)
	if err != nil || scale < 1 || scale > anim.MaxScale {
		return 0, errors.Errorf("scale must be a number between 1 and %d", anim.MaxScale)
	}
	return scale, nil
}

// stateDir resolves the state and direction of a frame or gif request.
func (h *Handler) stateDir(w http.ResponseWriter, r *http.Request) (*loaded, *rsi.State, rsi.Direction, bool) {
	vars := mux.Vars(r)
	l := h.loadOrFail(w, vars["pkg"])
	if l == nil {
		return nil, nil, 0, false
	}
	s := l.r.State(vars["state"])
	if s == nil {
		http.Error(w, "no such state", http.StatusNotFound)
		return nil, nil, 0, false
	}
	dir, err := strconv.Atoi(vars["dir"])
	if err != nil {
		http.Error(w, "dir not a number", http.StatusBadRequest)
		return nil, nil, 0, false
	}
	if dir >= s.Directions {
		http.Error(w, "no such direction", http.StatusNotFound)
		return nil, nil, 0, false
	}
	return l, s, rsi.Direction(dir), true
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	l, s, dir, ok := h.stateDir(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	fr, err := strconv.Atoi(vars["frame"])
	if err != nil {
		http.Error(w, "frame not a number", http.StatusBadRequest)
		return
	}
	if fr >= len(s.Frames[dir]) {
		http.Error(w, "no such frame", http.StatusNotFound)
		return
	}
	scale, err := parseScale(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mime := "image/png"
	key := fmt.Sprintf("%s:%d:%d:%d", s.FullName(), dir, fr, scale)
	if h.notModified(w, r, l, h.etag(l, "frame", vars["pkg"], key, mime)) {
		return
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, anim.Scale(s.Frames[dir][fr].Image, scale)); err != nil {
		glog.Errorf("web: encoding frame %s: %v", key, err)
		http.Error(w, "image could not be generated", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	l, s, dir, ok := h.stateDir(w, r)
	if !ok {
		return
	}
	scale, err := parseScale(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mime := "image/gif"
	key := fmt.Sprintf("%s:%d:%d", s.FullName(), dir, scale)
	if h.notModified(w, r, l, h.etag(l, "gif", mux.Vars(r)["pkg"], key, mime)) {
		return
	}

	g, err := anim.GIF(s, dir, scale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	buf := &bytes.Buffer{}
	if err := gif.EncodeAll(buf, g); err != nil {
		glog.Errorf("web: encoding gif %s: %v", key, err)
		http.Error(w, "image could not be generated", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
