package pipeline

import (
	"fmt"
	"image"

	"badc0de.net/pkg/go-spriteloop/frames"
)

// State is what happened to one frame.
type State string

const (
	StateOK          State = "ok"
	StateNotFound    State = "not_found"
	StateDecodeError State = "decode_error"
	StateBounds      State = "bounds"
)

// Outcome records the processing of one selected frame.
type Outcome struct {
	Frame frames.Frame
	// Position is the frame's index in the input sequence.
	Position int
	State    State

	// Sprite and Pattern are set when the sprite was located.
	Sprite  image.Point
	Pattern string
	Found   bool

	// Crop is the rectangle taken out of the frame.
	Crop image.Rectangle

	// Err explains a State other than StateOK. It is nil for StateNotFound.
	Err error
}

func (o Outcome) String() string {
	switch o.State {
	case StateOK:
		if o.Found {
			return fmt.Sprintf("%s: ok, sprite at %v (%s), crop %v", o.Frame.Name, o.Sprite, o.Pattern, o.Crop)
		}
		return fmt.Sprintf("%s: ok, crop %v", o.Frame.Name, o.Crop)
	case StateNotFound:
		return fmt.Sprintf("%s: sprite not found", o.Frame.Name)
	default:
		return fmt.Sprintf("%s: %s: %v", o.Frame.Name, o.State, o.Err)
	}
}

// Report lists the outcome of every selected frame, in sequence order.
type Report struct {
	Frames []Outcome
}

// Summary counts outcomes by state.
type Summary struct {
	Selected     int
	Processed    int
	NotFound     int
	DecodeErrors int
	Bounds       int
}

// Skipped returns the number of selected frames which did not make it into
// the output.
func (s Summary) Skipped() int {
	return s.Selected - s.Processed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d of %d selected frames processed, %d skipped (%d not found, %d undecodable, %d out of bounds)",
		s.Processed, s.Selected, s.Skipped(), s.NotFound, s.DecodeErrors, s.Bounds)
}

// Summary tallies the report.
func (r *Report) Summary() Summary {
	var s Summary
	for _, o := range r.Frames {
		s.Selected++
		switch o.State {
		case StateOK:
			s.Processed++
		case StateNotFound:
			s.NotFound++
		case StateDecodeError:
			s.DecodeErrors++
		case StateBounds:
			s.Bounds++
		}
	}
	return s
}

// Skipped returns the outcomes of frames which were not output.
func (r *Report) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Frames {
		if o.State != StateOK {
			out = append(out, o)
		}
	}
	return out
}
