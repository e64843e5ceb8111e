// Package config holds the settings of a spriteloop run. Settings are bound to
// flags once, validated once before any frame is touched, and converted into
// pipeline options.
package config

import (
	"flag"
	"image"
	"strings"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/locate"
	"badc0de.net/pkg/go-spriteloop/loop"
	"badc0de.net/pkg/go-spriteloop/paths"
	"badc0de.net/pkg/go-spriteloop/pipeline"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Operation is what a run produces.
type Operation string

const (
	// OpCrop writes one crop per frame.
	OpCrop Operation = "crop"
	// OpLoop writes one looping GIF.
	OpLoop Operation = "gif"
)

// ParseOperation accepts "crop" and "gif", and the older CROP_AROUND_LINK and
// MAKE_GIF spellings.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crop", "crop_around_link":
		return OpCrop, nil
	case "gif", "loop", "make_gif":
		return OpLoop, nil
	}
	return "", errors.Wrapf(ErrInvalidConfig, "unknown operation %q; want crop or gif", s)
}

// Config is the full configuration surface.
type Config struct {
	ImageRoot string
	ImageDir  string
	Operation string
	Region    string

	CropX, CropY          int
	CropWidth, CropHeight int

	OutWidth, OutHeight int
	KeepAspect          bool

	Skip, Take int
	Stride     bool
	FPS        int

	Quantizer string
	Workers   int
	Preview   bool

	// Out overrides the default output location: the crop directory for
	// OpCrop, the GIF path for OpLoop.
	Out string
}

// Default returns the configuration used when no flags are passed.
func Default() *Config {
	return &Config{
		ImageRoot:  "images",
		Operation:  string(OpLoop),
		CropWidth:  160,
		CropHeight: 160,
		OutWidth:   112,
		OutHeight:  112,
		KeepAspect: true,
		Take:       frames.Unbounded,
		Quantizer:  loop.QuantizerGogif,
		Workers:    1,
	}
}

// RegisterFlags binds a new Config, initialized to Default, to flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Config {
	c := Default()
	paths.SetupRootFlag(fs, "image_root", "", &c.ImageRoot, c.ImageRoot)
	fs.StringVar(&c.ImageDir, "image_dir", c.ImageDir, "Directory of numbered frames, relative to --image_root")
	fs.StringVar(&c.Operation, "operation", c.Operation, "What to produce: crop (one crop per frame) or gif (looping animation)")
	fs.StringVar(&c.Region, "region", c.Region, "Where crops come from: locate (around the sprite), fixed (--crop_x/y/width/height) or full; defaults to locate for crop and full for gif")
	fs.IntVar(&c.CropX, "crop_x", c.CropX, "Left edge of the fixed crop rectangle")
	fs.IntVar(&c.CropY, "crop_y", c.CropY, "Top edge of the fixed crop rectangle")
	fs.IntVar(&c.CropWidth, "crop_width", c.CropWidth, "Crop width")
	fs.IntVar(&c.CropHeight, "crop_height", c.CropHeight, "Crop height")
	fs.IntVar(&c.OutWidth, "out_width", c.OutWidth, "Width loop frames are resized to; 0 to disable resizing. Crops are never resized")
	fs.IntVar(&c.OutHeight, "out_height", c.OutHeight, "Height loop frames are resized to; 0 to disable resizing. Crops are never resized")
	fs.BoolVar(&c.KeepAspect, "keep_aspect", c.KeepAspect, "Fit loop frames inside --out_width x --out_height instead of stretching")
	fs.IntVar(&c.Skip, "skip_images", c.Skip, "Number of leading frames to drop")
	fs.IntVar(&c.Take, "take_images", c.Take, "Maximum number of frames to use; -1 for all")
	fs.BoolVar(&c.Stride, "skip_alternating", c.Stride, "Use only every other frame")
	fs.IntVar(&c.FPS, "fps", c.FPS, "Timing profile, 30 or 60; 0 picks 30 with --skip_alternating and 60 otherwise")
	fs.StringVar(&c.Quantizer, "quantizer", c.Quantizer, "GIF palette builder: gogif or quantize")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Frames processed concurrently")
	fs.BoolVar(&c.Preview, "preview", c.Preview, "Print every crop to the terminal")
	fs.StringVar(&c.Out, "out", c.Out, "Output directory (crop) or file (gif); defaults below --image_root")
	return c
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// Validate checks the configuration. All errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.ImageDir == "" {
		return invalid("--image_dir is required")
	}
	op, err := ParseOperation(c.Operation)
	if err != nil {
		return err
	}
	mode := c.RegionMode()
	if !mode.Valid() {
		return invalid("unknown region %q; want locate, fixed or full", c.Region)
	}
	if op == OpCrop && mode == pipeline.RegionFull {
		return invalid("operation crop needs --region=locate or --region=fixed")
	}

	ref := image.Rectangle{Max: locate.ReferenceSize}
	switch mode {
	case pipeline.RegionLocate:
		if c.CropWidth <= 0 || c.CropHeight <= 0 {
			return invalid("crop size %dx%d must be positive", c.CropWidth, c.CropHeight)
		}
		if c.CropWidth > ref.Dx() || c.CropHeight > ref.Dy() {
			return invalid("crop size %dx%d exceeds frame size %v", c.CropWidth, c.CropHeight, ref.Size())
		}
	case pipeline.RegionFixed:
		r := c.fixedRect()
		if r.Empty() || !r.In(ref) {
			return invalid("fixed rectangle %v must be non-empty and within %v", r, ref)
		}
	}

	if c.OutWidth < 0 || c.OutHeight < 0 || (c.OutWidth == 0) != (c.OutHeight == 0) {
		return invalid("output size %dx%d: both must be positive, or both 0", c.OutWidth, c.OutHeight)
	}
	if err := c.Selection().Validate(); err != nil {
		return invalid("%v", err)
	}
	if c.FPS != 0 {
		if _, err := loop.ProfileForFPS(c.FPS); err != nil {
			return invalid("%v", err)
		}
	}
	if !loop.ValidQuantizer(c.Quantizer) {
		return invalid("unknown quantizer %q; want %s or %s", c.Quantizer, loop.QuantizerGogif, loop.QuantizerQuantize)
	}
	if c.Workers < 1 {
		return invalid("--workers must be at least 1; got %d", c.Workers)
	}
	return nil
}

// Op returns the operation. Only meaningful after Validate.
func (c *Config) Op() Operation {
	op, _ := ParseOperation(c.Operation)
	return op
}

// RegionMode returns the region mode, defaulting by operation.
func (c *Config) RegionMode() pipeline.RegionMode {
	if c.Region != "" {
		return pipeline.RegionMode(c.Region)
	}
	if c.Op() == OpCrop {
		return pipeline.RegionLocate
	}
	return pipeline.RegionFull
}

// Selection returns the frame selection.
func (c *Config) Selection() frames.Selection {
	return frames.Selection{Skip: c.Skip, Take: c.Take, Stride: c.Stride}
}

// Profile returns the timing profile: the one for FPS, or if that is 0, 30fps
// when every other frame is dropped and 60fps otherwise.
func (c *Config) Profile() loop.Profile {
	fps := c.FPS
	if fps == 0 {
		fps = 60
		if c.Stride {
			fps = 30
		}
	}
	p, err := loop.ProfileForFPS(fps)
	if err != nil {
		return loop.Fps60
	}
	return p
}

func (c *Config) fixedRect() image.Rectangle {
	return image.Rect(c.CropX, c.CropY, c.CropX+c.CropWidth, c.CropY+c.CropHeight)
}

// PipelineOptions converts the configuration. Only meaningful after Validate.
//
// The output size only applies to loops; crops are written at the size of
// the crop rectangle.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Region:    c.RegionMode(),
		CropSize:  image.Pt(c.CropWidth, c.CropHeight),
		FixedRect: c.fixedRect(),
		Selection: c.Selection(),
		Profile:   c.Profile(),
		Quantizer: c.Quantizer,
		Workers:   c.Workers,
	}
	if c.Op() == OpLoop {
		opts.OutSize = image.Pt(c.OutWidth, c.OutHeight)
		opts.KeepAspect = c.KeepAspect
	}
	return opts
}

// InputDir returns the directory frames are read from.
func (c *Config) InputDir() string {
	return paths.InputDir(c.ImageRoot, c.ImageDir)
}

// OutputPath returns where the run's output goes.
func (c *Config) OutputPath() string {
	if c.Out != "" {
		return c.Out
	}
	if c.Op() == OpCrop {
		return paths.CropDir(c.ImageRoot, c.ImageDir)
	}
	return paths.LoopPath(c.ImageRoot, c.ImageDir)
}
