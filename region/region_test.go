package region

import (
	"image"
	"testing"

	"github.com/bradfitz/iter"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/locate"
	"badc0de.net/pkg/go-spriteloop/ttesting"
)

var reference = image.Rectangle{Max: locate.ReferenceSize}

func TestAroundSpriteAtOrigin(t *testing.T) {
	r, err := AroundSprite(image.Pt(0, 0), image.Pt(160, 160), reference)
	if err != nil {
		t.Fatalf("AroundSprite: %v", err)
	}
	ttesting.AssertEqualPoint(t, "topleft", r.Min, image.Pt(0, 0))
	ttesting.AssertEqualPoint(t, "size", r.Size(), image.Pt(160, 160))
}

func TestAroundSpriteCentered(t *testing.T) {
	// Sprite center is (108, 112); a 64x48 crop around it starts at (76, 88).
	r, err := AroundSprite(image.Pt(100, 100), image.Pt(64, 48), reference)
	if err != nil {
		t.Fatalf("AroundSprite: %v", err)
	}
	ttesting.AssertEqualPoint(t, "topleft", r.Min, image.Pt(76, 88))
}

func TestAroundSpriteFarEdge(t *testing.T) {
	r, err := AroundSprite(image.Pt(250, 220), image.Pt(100, 80), reference)
	if err != nil {
		t.Fatalf("AroundSprite: %v", err)
	}
	ttesting.AssertEqualPoint(t, "topleft", r.Min, image.Pt(156, 144))
	ttesting.AssertRectWithin(t, "within", r, reference)
}

func TestClampStaysInBounds(t *testing.T) {
	frames := []image.Point{{256, 224}, {17, 9}, {1, 1}, {100, 300}}
	for _, fs := range frames {
		frame := image.Rectangle{Max: fs}
		for tw := 1; tw <= fs.X; tw += 1 + fs.X/7 {
			for th := 1; th <= fs.Y; th += 1 + fs.Y/7 {
				size := image.Pt(tw, th)
				for cx := range iter.N(fs.X + 40) {
					for cy := -20; cy < fs.Y+20; cy += 3 {
						c := image.Pt(cx-20, cy)
						r := Clamp(c, size, frame)
						if !r.In(frame) || !r.Size().Eq(size) {
							t.Fatalf("Clamp(%v, %v, %v) = %v; not inside frame", c, size, frame, r)
						}
					}
				}
			}
		}
	}
}

func TestClampOffsetFrame(t *testing.T) {
	frame := image.Rect(10, 20, 110, 120)
	r := Clamp(image.Pt(12, 22), image.Pt(30, 30), frame)
	ttesting.AssertEqualPoint(t, "topleft", r.Min, image.Pt(10, 20))
	ttesting.AssertRectWithin(t, "within", r, frame)
}

func TestClampOversize(t *testing.T) {
	r := Clamp(image.Pt(8, 12), image.Pt(300, 100), reference)
	ttesting.AssertEqualInt(t, "x", r.Min.X, 0)
	ttesting.AssertEqualInt(t, "width", r.Dx(), 300)
}

func TestAroundSpriteOversize(t *testing.T) {
	_, err := AroundSprite(image.Pt(0, 0), image.Pt(300, 100), reference)
	if errors.Cause(err) != ErrBoundsViolation {
		t.Errorf("got %v; want ErrBoundsViolation", err)
	}
}

func TestFixed(t *testing.T) {
	want := image.Rect(10, 10, 110, 90)
	got, err := Fixed(want, reference)
	if err != nil {
		t.Fatalf("Fixed: %v", err)
	}
	if got != want {
		t.Errorf("got %v; want %v", got, want)
	}

	for _, bad := range []image.Rectangle{
		image.Rect(200, 0, 300, 100),
		image.Rect(-1, 0, 10, 10),
		image.Rect(5, 5, 5, 50),
	} {
		if _, err := Fixed(bad, reference); errors.Cause(err) != ErrBoundsViolation {
			t.Errorf("Fixed(%v): got %v; want ErrBoundsViolation", bad, err)
		}
	}
}
