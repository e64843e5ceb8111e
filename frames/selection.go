package frames

import (
	"github.com/pkg/errors"
)

// Unbounded is the Take value meaning "no limit".
const Unbounded = -1

// Selection picks a subsequence of frames. Applied in order: the first Skip
// frames are dropped; if Stride is set, only every other remaining frame
// (starting with the first) is kept; at most Take of the result are used.
type Selection struct {
	Skip   int
	Take   int
	Stride bool
}

// All selects every frame.
var All = Selection{Take: Unbounded}

// Validate checks the selection for negative values.
func (s Selection) Validate() error {
	if s.Skip < 0 {
		return errors.Errorf("skip must not be negative; got %d", s.Skip)
	}
	if s.Take < Unbounded {
		return errors.Errorf("take must be %d (unbounded) or more; got %d", Unbounded, s.Take)
	}
	return nil
}

// Keep reports whether the frame at position pos of the original sequence is
// selected, and whether any frame after pos could still be.
//
// Keep is meant for single pass use over increasing positions, fused with
// decoding, so that dropped frames are never decoded.
func (s Selection) Keep(pos int) (keep, more bool) {
	if pos < s.Skip {
		return false, true
	}
	rel := pos - s.Skip
	idx := rel
	if s.Stride {
		if rel%2 != 0 {
			return false, s.Take == Unbounded || (rel+1)/2 < s.Take
		}
		idx = rel / 2
	}
	if s.Take != Unbounded && idx >= s.Take {
		return false, false
	}
	last := s.Take != Unbounded && idx == s.Take-1
	return true, !last
}

// Select returns the frames chosen by sel, in their original order.
func Select[T any](items []T, sel Selection) []T {
	var out []T
	for i, it := range items {
		keep, more := sel.Keep(i)
		if keep {
			out = append(out, it)
		}
		if !more {
			break
		}
	}
	return out
}
