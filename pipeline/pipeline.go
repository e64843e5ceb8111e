package pipeline

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/loop"
	"badc0de.net/pkg/go-spriteloop/paths"
)

// sink consumes frames in sequence order. img is nil unless o.State is
// StateOK. A returned error aborts the run.
type sink func(o Outcome, img image.Image) error

type selected struct {
	pos   int
	frame frames.Frame
}

func selectFrames(in []frames.Frame, sel frames.Selection) []selected {
	var out []selected
	for pos, f := range in {
		keep, more := sel.Keep(pos)
		if keep {
			out = append(out, selected{pos, f})
		}
		if !more {
			break
		}
	}
	return out
}

// process decodes and transforms one frame. Failures are recorded in the
// outcome.
func process(s selected, opts Options) (image.Image, Outcome) {
	img, err := s.frame.Decode()
	if err != nil {
		return nil, Outcome{Frame: s.frame, Position: s.pos, State: StateDecodeError, Err: err}
	}
	out, o := Transform(img, opts)
	o.Frame, o.Position = s.frame, s.pos
	return out, o
}

func logOutcome(o Outcome) {
	if o.State == StateOK {
		glog.Infof("pipeline: %v", o)
	} else {
		glog.Warningf("pipeline: skipping %v", o)
	}
}

// run processes the selected frames of in and feeds them to sink in order.
// Per-frame failures end up in the report; only sink errors abort.
func run(in []frames.Frame, opts Options, s sink) (*Report, error) {
	if err := opts.Selection.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid selection")
	}
	sel := selectFrames(in, opts.Selection)
	report := &Report{Frames: make([]Outcome, 0, len(sel))}

	emit := func(o Outcome, img image.Image) error {
		logOutcome(o)
		report.Frames = append(report.Frames, o)
		if o.State == StateOK && opts.OnCrop != nil {
			opts.OnCrop(o.Frame, img)
		}
		return s(o, img)
	}

	if opts.Workers < 2 {
		for _, f := range sel {
			img, o := process(f, opts)
			if err := emit(o, img); err != nil {
				return report, err
			}
		}
		return report, nil
	}

	// Frames are independent up to this point; fan out, then re-join by
	// position before anything order dependent happens.
	imgs := make([]image.Image, len(sel))
	outcomes := make([]Outcome, len(sel))
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, f := range sel {
		i, f := i, f
		g.Go(func() error {
			imgs[i], outcomes[i] = process(f, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for i := range sel {
		err := emit(outcomes[i], imgs[i])
		imgs[i] = nil
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// MakeLoop encodes the selected, cropped and resized frames of in as one
// looping GIF written to w. Frames which are skipped for any reason do not
// count towards the alternating delay pattern.
func MakeLoop(in []frames.Frame, w io.Writer, opts Options) (*Report, error) {
	enc := loop.NewEncoder(opts.Profile, &loop.Options{Quantizer: opts.Quantizer})
	report, err := run(in, opts, func(o Outcome, img image.Image) error {
		if o.State != StateOK {
			return nil
		}
		return enc.Add(img)
	})
	if err != nil {
		return report, err
	}
	if err := enc.Encode(w); err != nil {
		return report, err
	}
	return report, nil
}

// WriteLoop is MakeLoop writing atomically to the file at path.
func WriteLoop(in []frames.Frame, path string, opts Options) (*Report, error) {
	var report *Report
	err := paths.WriteAtomic(path, func(w io.Writer) error {
		var err error
		report, err = MakeLoop(in, w, opts)
		return err
	})
	return report, err
}

// CropFrames writes one crop per selected frame of in to outDir, named after
// the input file.
func CropFrames(in []frames.Frame, outDir string, opts Options) (*Report, error) {
	return run(in, opts, func(o Outcome, img image.Image) error {
		if o.State != StateOK {
			return nil
		}
		name := CropName(o.Frame.Name)
		return paths.WriteAtomic(filepath.Join(outDir, name), func(w io.Writer) error {
			return encodeStill(w, name, img)
		})
	})
}

// CropName returns the file name the crop of the named frame is stored as:
// the same name, unless the extension is not one crops can be written as, in
// which case it is replaced with ".png".
func CropName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
}

func encodeStill(w io.Writer, name string, img image.Image) error {
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".gif":
		err = gif.Encode(w, img, nil)
	default:
		err = png.Encode(w, img)
	}
	return errors.Wrapf(err, "encoding crop %q", name)
}
