// Package ttesting contains small assertion helpers shared by tests.
package ttesting

import (
	"image"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualPoint(t *testing.T, name string, got, want image.Point) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if !got.Eq(want) {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertRectWithin checks that r is non-empty and fully inside bounds.
func AssertRectWithin(t *testing.T, name string, r, bounds image.Rectangle) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if r.Empty() || !r.In(bounds) {
			t.Errorf("got %v; want non-empty rectangle within %v", r, bounds)
		}
	})
}

// NewFrame returns an opaque black image of the passed size.
func NewFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return img
}
