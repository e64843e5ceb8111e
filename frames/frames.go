// Package frames enumerates and decodes the still images a loop is built
// from, and selects which of them take part in an output.
package frames

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Frame is a still image on disk. Frames are ordered by the number in their
// file name.
type Frame struct {
	Path string
	Name string

	// Key is the base-10 number the file stem consists of. HasKey is false
	// if the stem is not a number.
	Key    uint64
	HasKey bool
}

// DecodeError is returned when a frame file cannot be read or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding frame %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Cause is provided for github.com/pkg/errors.
func (e *DecodeError) Cause() error { return e.Err }

// New returns a frame for the file at path.
func New(path string) Frame {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	f := Frame{Path: path, Name: name}
	if k, err := strconv.ParseUint(stem, 10, 64); err == nil {
		f.Key = k
		f.HasKey = true
	}
	return f
}

// List returns the files in dir as frames, sorted by key. Subdirectories are
// ignored. Files without a numeric key sort before all others; ties are broken
// by name.
func List(dir string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing frames in %q", dir)
	}

	var out []Frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f := New(filepath.Join(dir, e.Name()))
		if !f.HasKey {
			glog.Warningf("frames: %q has no numeric key; sorting it first", f.Name)
		}
		out = append(out, f)
	}
	Sort(out)
	return out, nil
}

// Sort orders frames the way List does.
func Sort(fs []Frame) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.HasKey != b.HasKey {
			return !a.HasKey
		}
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Name < b.Name
	})
}

// Decode reads and decodes the frame. Errors are of type *DecodeError.
func (f Frame) Decode() (image.Image, error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, &DecodeError{Path: f.Path, Err: err}
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Path: f.Path, Err: err}
	}
	glog.V(1).Infof("frames: decoded %s (%s, %v)", f.Name, format, img.Bounds().Size())
	return img, nil
}
