package pipeline

import (
	"image"
	"math"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/locate"
	"badc0de.net/pkg/go-spriteloop/region"
)

// Transform picks the region of img according to opts, crops and resizes it.
// The returned image is nil unless the outcome's state is StateOK. Only the
// Sprite, Pattern, Found, Crop, State and Err fields of the outcome are set.
func Transform(img image.Image, opts Options) (image.Image, Outcome) {
	var o Outcome
	b := img.Bounds()

	var err error
	switch opts.Region {
	case RegionLocate:
		if !b.Size().Eq(locate.ReferenceSize) {
			o.State = StateBounds
			o.Err = errors.Wrapf(region.ErrBoundsViolation, "frame is %v, sprite search needs %v", b.Size(), locate.ReferenceSize)
			return nil, o
		}
		m, ok := opts.matchers().Find(img)
		if !ok {
			o.State = StateNotFound
			return nil, o
		}
		o.Found, o.Sprite, o.Pattern = true, m.Point, m.Pattern
		o.Crop, err = region.AroundSprite(m.Point, opts.CropSize, b)
	case RegionFixed:
		o.Crop, err = region.Fixed(opts.FixedRect, b)
	case RegionFull, "":
		o.Crop = b
	default:
		err = errors.Errorf("unknown region mode %q", opts.Region)
	}
	if err != nil {
		o.State = StateBounds
		o.Err = err
		return nil, o
	}

	out := Crop(img, o.Crop)
	out = Resize(out, opts.OutSize, opts.KeepAspect)
	o.State = StateOK
	return out, o
}

// Crop copies r out of img into a new image whose bounds start at the origin.
func Crop(img image.Image, r image.Rectangle) image.Image {
	if r == img.Bounds() && r.Min == (image.Point{}) {
		return img
	}
	g := gift.New(gift.Crop(r))
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// Resize scales img to size using nearest neighbour sampling. With keepAspect,
// img is instead scaled to the largest size fitting inside size that keeps
// its aspect ratio. A zero size leaves img alone.
func Resize(img image.Image, size image.Point, keepAspect bool) image.Image {
	if size.X <= 0 || size.Y <= 0 {
		return img
	}
	if keepAspect {
		size = Fit(img.Bounds().Size(), size)
	}
	if img.Bounds().Size().Eq(size) {
		return img
	}
	return resize.Resize(uint(size.X), uint(size.Y), img, resize.NearestNeighbor)
}

// Fit returns the largest size with src's aspect ratio that fits into max.
// Neither side is ever smaller than one pixel.
func Fit(src, max image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 {
		return max
	}
	ratio := math.Min(float64(max.X)/float64(src.X), float64(max.Y)/float64(src.Y))
	w := int(math.Round(float64(src.X) * ratio))
	h := int(math.Round(float64(src.Y) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Pt(w, h)
}
