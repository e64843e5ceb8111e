// Package web serves frames, sprite locations, crops and loops over HTTP.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/loop"
	"badc0de.net/pkg/go-spriteloop/pipeline"
)

// generation is part of every ETag; bump it when the output for unchanged
// inputs changes.
const generation = 1

const cacheControl = "public; max-age=36000" // 36000 = 10h

type Handler struct {
	frames []frames.Frame
	opts   pipeline.Options
}

// NewHandler serves fs, processing them the way opts says. Per-request
// parameters of /loop.gif override opts' selection and timing.
func NewHandler(fs []frames.Frame, opts pipeline.Options) *Handler {
	opts.OnCrop = nil
	return &Handler{frames: fs, opts: opts}
}

func (h *Handler) frame(w http.ResponseWriter, r *http.Request) (int, frames.Frame, bool) {
	idx, err := strconv.Atoi(mux.Vars(r)["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return 0, frames.Frame{}, false
	}
	if idx < 0 || idx >= len(h.frames) {
		http.Error(w, fmt.Sprintf("no frame %d; have %d", idx, len(h.frames)), http.StatusNotFound)
		return 0, frames.Frame{}, false
	}
	return idx, h.frames[idx], true
}

func signature(fs ...frames.Frame) (string, time.Time) {
	var latest time.Time
	var size int64
	for _, f := range fs {
		s, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		size += s.Size()
		if s.ModTime().After(latest) {
			latest = s.ModTime()
		}
	}
	return fmt.Sprintf("%d:%d:%x", len(fs), size, latest.UnixNano()), latest
}

// notModified writes 304 if the client already has etag.
func notModified(w http.ResponseWriter, r *http.Request, etag string, modified time.Time) bool {
	if r.Header.Get("If-None-Match") != etag {
		return false
	}
	setCacheHeaders(w, etag, modified)
	w.WriteHeader(http.StatusNotModified)
	return true
}

func setCacheHeaders(w http.ResponseWriter, etag string, modified time.Time) {
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("ETag", etag)
	if !modified.IsZero() {
		w.Header().Set("Last-Modified", modified.Format(http.TimeFormat))
	}
}

func (h *Handler) decode(w http.ResponseWriter, f frames.Frame) (image.Image, bool) {
	img, err := f.Decode()
	if err != nil {
		glog.Errorf("web: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return img, true
}

func writeImage(w http.ResponseWriter, mime string, b []byte) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	idx, f, ok := h.frame(w, r)
	if !ok {
		return
	}
	sig, mod := signature(f)
	etag := fmt.Sprintf(`W/"frame:%d:%d:%s"`, generation, idx, sig)
	if notModified(w, r, etag, mod) {
		return
	}
	img, ok := h.decode(w, f)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setCacheHeaders(w, etag, mod)
	writeImage(w, "image/png", buf.Bytes())
}

// locateCrop runs the frame through the pipeline with sprite location
// forced on. Crops are not resized.
func (h *Handler) locateCrop(w http.ResponseWriter, f frames.Frame) (image.Image, pipeline.Outcome, bool) {
	img, ok := h.decode(w, f)
	if !ok {
		return nil, pipeline.Outcome{}, false
	}
	opts := h.opts
	opts.Region = pipeline.RegionLocate
	opts.OutSize = image.Point{}
	out, o := pipeline.Transform(img, opts)
	o.Frame = f
	return out, o, true
}

type location struct {
	Frame   string `json:"frame"`
	Found   bool   `json:"found"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Pattern string `json:"pattern,omitempty"`
	State   string `json:"state"`
	Error   string `json:"error,omitempty"`

	Rect []int  `json:"rect,omitempty"`
	// Crop is a PNG data URL of the crop around the sprite.
	Crop string `json:"crop,omitempty"`
}

func (h *Handler) locateHandler(w http.ResponseWriter, r *http.Request) {
	idx, f, ok := h.frame(w, r)
	if !ok {
		return
	}
	sig, mod := signature(f)
	etag := fmt.Sprintf(`W/"locate:%d:%d:%s:%v"`, generation, idx, sig, h.opts.CropSize)
	if notModified(w, r, etag, mod) {
		return
	}
	crop, o, ok := h.locateCrop(w, f)
	if !ok {
		return
	}

	loc := location{
		Frame:   f.Name,
		Found:   o.Found,
		X:       o.Sprite.X,
		Y:       o.Sprite.Y,
		Pattern: o.Pattern,
		State:   string(o.State),
	}
	if o.Err != nil {
		loc.Error = o.Err.Error()
	}
	if o.State == pipeline.StateOK {
		loc.Rect = []int{o.Crop.Min.X, o.Crop.Min.Y, o.Crop.Dx(), o.Crop.Dy()}
		var buf bytes.Buffer
		if err := png.Encode(&buf, crop); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		loc.Crop = dataurl.New(buf.Bytes(), "image/png").String()
	}

	b, err := json.Marshal(loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setCacheHeaders(w, etag, mod)
	writeImage(w, "application/json", b)
}

func (h *Handler) cropHandler(w http.ResponseWriter, r *http.Request) {
	idx, f, ok := h.frame(w, r)
	if !ok {
		return
	}
	sig, mod := signature(f)
	etag := fmt.Sprintf(`W/"crop:%d:%d:%s:%v"`, generation, idx, sig, h.opts.CropSize)
	if notModified(w, r, etag, mod) {
		return
	}
	crop, o, ok := h.locateCrop(w, f)
	if !ok {
		return
	}
	switch o.State {
	case pipeline.StateOK:
	case pipeline.StateNotFound:
		http.Error(w, "sprite not found in "+f.Name, http.StatusNotFound)
		return
	default:
		http.Error(w, o.String(), http.StatusUnprocessableEntity)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setCacheHeaders(w, etag, mod)
	writeImage(w, "image/png", buf.Bytes())
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("%s not a number", name)
	}
	return n, nil
}

// loopOptions applies the skip, take, stride and fps query parameters.
func (h *Handler) loopOptions(r *http.Request) (pipeline.Options, error) {
	opts := h.opts
	var err error
	if opts.Selection.Skip, err = queryInt(r, "skip", opts.Selection.Skip); err != nil {
		return opts, err
	}
	if opts.Selection.Take, err = queryInt(r, "take", opts.Selection.Take); err != nil {
		return opts, err
	}
	if s := r.URL.Query().Get("stride"); s != "" {
		if opts.Selection.Stride, err = strconv.ParseBool(s); err != nil {
			return opts, errors.New("stride not a boolean")
		}
	}
	fps, err := queryInt(r, "fps", 0)
	if err != nil {
		return opts, err
	}
	if fps != 0 {
		if opts.Profile, err = loop.ProfileForFPS(fps); err != nil {
			return opts, err
		}
	}
	if err := opts.Selection.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (h *Handler) loopHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := h.loopOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sig, mod := signature(h.frames...)
	etag := fmt.Sprintf(`W/"loop:%d:%s:%+v:%v:%s:%s"`, generation, sig, opts.Selection, opts.Profile, opts.Region, opts.Quantizer)
	if notModified(w, r, etag, mod) {
		return
	}

	tr := trace.New("web.loop", r.URL.RawQuery)
	defer tr.Finish()

	var buf bytes.Buffer
	report, err := pipeline.MakeLoop(h.frames, &buf, opts)
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		glog.Errorf("web: loop: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	tr.LazyPrintf("%v, %d bytes", report.Summary(), buf.Len())
	glog.V(1).Infof("web: loop: %v", report.Summary())
	setCacheHeaders(w, etag, mod)
	writeImage(w, "image/gif", buf.Bytes())
}

func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	names := make([]string, len(h.frames))
	for i, f := range h.frames {
		names[i] = f.Name
	}
	b, err := json.Marshal(names)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeImage(w, "application/json", b)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/frames", h.listHandler)
	r.HandleFunc("/frame/{idx:[0-9]+}.png", h.frameHandler)
	r.HandleFunc("/locate/{idx:[0-9]+}", h.locateHandler)
	r.HandleFunc("/crop/{idx:[0-9]+}.png", h.cropHandler)
	r.HandleFunc("/loop.gif", h.loopHandler)
}
