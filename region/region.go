// Package region computes the rectangles frames get cropped to.
package region

import (
	"image"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/locate"
)

// ErrBoundsViolation is returned when a requested crop does not fit the frame.
var ErrBoundsViolation = errors.New("crop does not fit frame")

// Clamp returns the size-sized rectangle centered on center, moved so that it
// stays within frame. Each axis is handled independently: the top-left corner
// is first clamped to [0, frame size], and if the rectangle then overflows it
// is moved back to end at the frame's edge.
//
// If size exceeds the frame on an axis, the corner ends up at 0 on that axis
// and the rectangle sticks out of the frame. Callers who cannot rule that out
// should use AroundSprite.
func Clamp(center, size image.Point, frame image.Rectangle) image.Rectangle {
	fs := frame.Size()
	rel := center.Sub(frame.Min)
	tl := image.Pt(
		clampAxis(rel.X-size.X/2, size.X, fs.X),
		clampAxis(rel.Y-size.Y/2, size.Y, fs.Y),
	)
	tl = tl.Add(frame.Min)
	return image.Rectangle{Min: tl, Max: tl.Add(size)}
}

func clampAxis(tl, size, frameSize int) int {
	if tl < 0 {
		tl = 0
	}
	if tl > frameSize {
		tl = frameSize
	}
	if tl+size > frameSize {
		tl = frameSize - size
		if tl < 0 {
			tl = 0
		}
	}
	return tl
}

// SpriteCenter returns the center of the sprite whose bounding box starts at
// topLeft.
func SpriteCenter(topLeft image.Point) image.Point {
	return topLeft.Add(locate.SpriteSize.Div(2))
}

// AroundSprite returns a size-sized rectangle centered on the sprite whose
// top-left corner is at sprite, clamped to frame.
func AroundSprite(sprite, size image.Point, frame image.Rectangle) (image.Rectangle, error) {
	if err := checkSize(size, frame); err != nil {
		return image.Rectangle{}, err
	}
	return Clamp(SpriteCenter(sprite), size, frame), nil
}

// Fixed validates a statically configured rectangle against frame and returns
// it unchanged.
func Fixed(rect, frame image.Rectangle) (image.Rectangle, error) {
	if rect.Empty() {
		return image.Rectangle{}, errors.Wrapf(ErrBoundsViolation, "empty rectangle %v", rect)
	}
	if !rect.In(frame) {
		return image.Rectangle{}, errors.Wrapf(ErrBoundsViolation, "rectangle %v outside frame %v", rect, frame)
	}
	return rect, nil
}

func checkSize(size image.Point, frame image.Rectangle) error {
	fs := frame.Size()
	if size.X <= 0 || size.Y <= 0 {
		return errors.Wrapf(ErrBoundsViolation, "target size %v not positive", size)
	}
	if size.X > fs.X || size.Y > fs.Y {
		return errors.Wrapf(ErrBoundsViolation, "target size %v exceeds frame size %v", size, fs)
	}
	return nil
}
