package loop

import (
	"time"

	"github.com/pkg/errors"
)

// Profile is the pair of durations frames alternate between. Frames at even
// positions of the encoded sequence are shown for Short, odd ones for Long.
type Profile struct {
	Short, Long time.Duration
}

var (
	// Fps60 approximates 60 frames per second source material.
	Fps60 = Profile{Short: 10 * time.Millisecond, Long: 20 * time.Millisecond}
	// Fps30 approximates 30 frames per second, e.g. after striding.
	Fps30 = Profile{Short: 20 * time.Millisecond, Long: 40 * time.Millisecond}
)

// ProfileForFPS returns the profile for 30 or 60 fps.
func ProfileForFPS(fps int) (Profile, error) {
	switch fps {
	case 30:
		return Fps30, nil
	case 60:
		return Fps60, nil
	default:
		return Profile{}, errors.Errorf("no timing profile for %d fps; want 30 or 60", fps)
	}
}

// Delay returns how long the frame at position pos is shown.
func (p Profile) Delay(pos int) time.Duration {
	if pos%2 == 0 {
		return p.Short
	}
	return p.Long
}

// GIFDelay returns Delay(pos) in the 10ms units GIF uses, rounded down but
// never below one unit.
func (p Profile) GIFDelay(pos int) int {
	d := int(p.Delay(pos) / (10 * time.Millisecond))
	if d < 1 {
		d = 1
	}
	return d
}

// GIFDelays returns the delays of the first n frames in GIF units.
func (p Profile) GIFDelays(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = p.GIFDelay(i)
	}
	return out
}

func (p Profile) String() string {
	return p.Short.String() + "/" + p.Long.String()
}
