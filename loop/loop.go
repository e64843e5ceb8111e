// Package loop encodes frame sequences into infinitely looping GIFs with
// alternating frame delays.
package loop

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"

	"github.com/andybons/gogif"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EncodeError is returned when a loop cannot be encoded. Index is the position
// of the offending frame, or -1 if the failure is not tied to one frame.
type EncodeError struct {
	Index int
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("encoding loop: %v", e.Err)
	}
	return fmt.Sprintf("encoding loop frame %d: %v", e.Index, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Cause is provided for github.com/pkg/errors.
func (e *EncodeError) Cause() error { return e.Err }

var (
	// ErrSizeMismatch is wrapped by EncodeError when a frame's size differs
	// from the first frame's.
	ErrSizeMismatch = errors.New("frame size differs from first frame")
	// ErrNoFrames is wrapped by EncodeError when encoding an empty loop.
	ErrNoFrames = errors.New("no frames to encode")
)

// Quantizer names accepted in Options.
const (
	QuantizerGogif    = "gogif"
	QuantizerQuantize = "quantize"
)

// Options tweak the encoder. A nil *Options is valid.
type Options struct {
	// Quantizer selects how frame palettes are built; QuantizerGogif if empty.
	Quantizer string
	// NumColors caps palette size; 256 if zero.
	NumColors int
}

func (o *Options) quantizer() string {
	if o == nil || o.Quantizer == "" {
		return QuantizerGogif
	}
	return o.Quantizer
}

func (o *Options) numColors() int {
	if o == nil || o.NumColors <= 0 || o.NumColors > 256 {
		return 256
	}
	return o.NumColors
}

// ValidQuantizer reports whether name is a known quantizer.
func ValidQuantizer(name string) bool {
	switch name {
	case "", QuantizerGogif, QuantizerQuantize:
		return true
	}
	return false
}

// Encoder accumulates palettized frames for one loop.
type Encoder struct {
	profile Profile
	opts    *Options

	size   image.Point
	frames []*image.Paletted
}

// NewEncoder returns an encoder using the passed timing profile.
func NewEncoder(profile Profile, opts *Options) *Encoder {
	return &Encoder{profile: profile, opts: opts}
}

// Len returns the number of frames added so far.
func (e *Encoder) Len() int {
	return len(e.frames)
}

// Add appends a frame. The frame is made opaque and palettized immediately,
// so the caller need not keep it around.
func (e *Encoder) Add(img image.Image) error {
	idx := len(e.frames)
	size := img.Bounds().Size()
	if idx == 0 {
		if size.X <= 0 || size.Y <= 0 {
			return &EncodeError{Index: idx, Err: errors.Errorf("empty frame %v", size)}
		}
		e.size = size
	} else if !size.Eq(e.size) {
		return &EncodeError{Index: idx, Err: errors.Wrapf(ErrSizeMismatch, "got %v, want %v", size, e.size)}
	}

	pal, err := e.palettize(Opaque(img))
	if err != nil {
		return &EncodeError{Index: idx, Err: err}
	}
	e.frames = append(e.frames, pal)
	return nil
}

// Encode writes all added frames to w as one looping GIF.
func (e *Encoder) Encode(w io.Writer) error {
	if len(e.frames) == 0 {
		return &EncodeError{Index: -1, Err: ErrNoFrames}
	}
	g := &gif.GIF{
		Image:     e.frames,
		Delay:     e.profile.GIFDelays(len(e.frames)),
		Disposal:  make([]byte, len(e.frames)),
		LoopCount: 0, // forever
		Config: image.Config{
			Width:  e.size.X,
			Height: e.size.Y,
		},
	}
	for i := range g.Disposal {
		g.Disposal[i] = gif.DisposalNone
	}
	glog.Infof("loop: encoding %d frames of %v, delays %s", len(e.frames), e.size, e.profile)
	if err := gif.EncodeAll(w, g); err != nil {
		return &EncodeError{Index: -1, Err: errors.Wrap(err, "writing gif")}
	}
	return nil
}

// Encode is a one-shot form of NewEncoder, Add and Encode.
func Encode(w io.Writer, frames []image.Image, profile Profile, opts *Options) error {
	enc := NewEncoder(profile, opts)
	for _, f := range frames {
		if err := enc.Add(f); err != nil {
			return err
		}
	}
	return enc.Encode(w)
}

// Opaque returns an 8-bit RGBA copy of img with every pixel fully opaque.
// The result's bounds start at the origin.
func Opaque(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rectangle{Max: b.Size()})
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return out
}

func (e *Encoder) palettize(img *image.RGBA) (*image.Paletted, error) {
	b := img.Bounds()
	switch q := e.opts.quantizer(); q {
	case QuantizerGogif:
		pal := image.NewPaletted(b, nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: e.opts.numColors()}
		quantizer.Quantize(pal, b, img, image.ZP)
		return pal, nil
	case QuantizerQuantize:
		quantizer := quantize.MedianCutQuantizer{}
		palette := quantizer.Quantize(make(color.Palette, 0, e.opts.numColors()), img)
		pal := image.NewPaletted(b, palette)
		draw.Draw(pal, b, img, b.Min, draw.Src)
		return pal, nil
	default:
		return nil, errors.Errorf("unknown quantizer %q", q)
	}
}
