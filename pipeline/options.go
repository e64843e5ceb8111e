// Package pipeline ties frame selection, sprite location, cropping, resizing
// and loop encoding together.
package pipeline

import (
	"image"

	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/locate"
	"badc0de.net/pkg/go-spriteloop/loop"
)

// RegionMode selects where crops come from.
type RegionMode string

const (
	// RegionLocate crops CropSize around the sprite found in each frame.
	RegionLocate RegionMode = "locate"
	// RegionFixed crops FixedRect out of every frame.
	RegionFixed RegionMode = "fixed"
	// RegionFull uses whole frames.
	RegionFull RegionMode = "full"
)

// Valid reports whether m is a known region mode.
func (m RegionMode) Valid() bool {
	switch m {
	case RegionLocate, RegionFixed, RegionFull:
		return true
	}
	return false
}

// Options configure a pipeline run.
type Options struct {
	Region    RegionMode
	CropSize  image.Point
	FixedRect image.Rectangle

	// OutSize, if non-zero, is what crops are resized to. With KeepAspect
	// the result is fitted inside OutSize instead.
	OutSize    image.Point
	KeepAspect bool

	Selection frames.Selection
	Profile   loop.Profile
	Quantizer string

	// Workers is the number of frames processed concurrently. Values below
	// 2 process frames one at a time.
	Workers int

	// Matchers overrides locate.Default.
	Matchers locate.MatcherSet

	// OnCrop, if set, is called with every successfully produced crop, in
	// sequence order.
	OnCrop func(f frames.Frame, img image.Image)
}

// DefaultOptions returns the options the original tool used for loops.
func DefaultOptions() Options {
	return Options{
		Region:     RegionFull,
		CropSize:   image.Pt(160, 160),
		OutSize:    image.Pt(112, 112),
		KeepAspect: true,
		Selection:  frames.All,
		Profile:    loop.Fps60,
	}
}

func (o *Options) matchers() locate.MatcherSet {
	if o.Matchers == nil {
		return locate.Default
	}
	return o.Matchers
}
