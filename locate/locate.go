package locate

import (
	"image"
	"image/color"

	"github.com/golang/glog"
)

// CandidateSet holds the pixels matching a color signature.
//
// Membership is a set lookup; iteration is in raster scan order so that the
// anchor picked when a pattern matches more than once is reproducible.
type CandidateSet struct {
	order []image.Point
	set   map[image.Point]struct{}
}

// Candidates scans every pixel of img and collects those whose RGB equals
// sig's RGB. Alpha is not compared.
func Candidates(img image.Image, sig color.Color) *CandidateSet {
	want := color.NRGBAModel.Convert(sig).(color.NRGBA)
	cs := &CandidateSet{set: make(map[image.Point]struct{})}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R == want.R && c.G == want.G && c.B == want.B {
				p := image.Pt(x, y)
				cs.order = append(cs.order, p)
				cs.set[p] = struct{}{}
			}
		}
	}
	return cs
}

// Len returns the number of candidate pixels.
func (cs *CandidateSet) Len() int {
	return len(cs.order)
}

// Contains reports whether p is a candidate pixel.
func (cs *CandidateSet) Contains(p image.Point) bool {
	_, ok := cs.set[p]
	return ok
}

// Match describes where the sprite was found and by which pattern.
type Match struct {
	// Point is the top-left corner of the sprite's bounding box.
	Point image.Point
	// Anchor is the candidate pixel the pattern was measured from.
	Anchor  image.Point
	Pattern string
}

// Find returns the sprite position according to the first pattern in ms
// which matches any candidate for the hat color.
func (ms MatcherSet) Find(img image.Image) (Match, bool) {
	return ms.FindIn(Candidates(img, HatColor))
}

// FindIn is like Find, but works on an already collected candidate set.
func (ms MatcherSet) FindIn(cs *CandidateSet) (Match, bool) {
	if cs.Len() == 0 {
		return Match{}, false
	}
	glog.V(2).Infof("locate: %d candidate pixels", cs.Len())
	for _, p := range ms {
		for _, anchor := range cs.order {
			if !p.matchesAt(cs, anchor) {
				continue
			}
			m := Match{
				Point:   anchor.Add(image.Pt(p.Translation.DX, p.Translation.DY)),
				Anchor:  anchor,
				Pattern: p.Name,
			}
			glog.V(2).Infof("locate: %s matched at anchor %v", p.Name, anchor)
			return m, true
		}
	}
	return Match{}, false
}

// Locate returns the top-left corner of the sprite in img using the Default
// matcher set. ok is false if no pattern matched; that is not an error.
func Locate(img image.Image) (pt image.Point, ok bool) {
	m, ok := Default.Find(img)
	return m.Point, ok
}
