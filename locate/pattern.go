package locate

import (
	"image"
	"image/color"
)

var (
	// HatColor is the color signature of the sprite's hat.
	HatColor = color.RGBA{R: 123, G: 189, B: 33, A: 0xFF}

	// ReferenceSize is the only frame size the patterns are known to work on.
	ReferenceSize = image.Pt(256, 224)

	// SpriteSize is the size of the sprite's bounding box.
	SpriteSize = image.Pt(16, 24)
)

// Offset is a position relative to an anchor pixel.
type Offset struct {
	DX, DY int
}

// Pattern is a set of offsets which all need to be candidate pixels for the
// anchor to count as a match. Translation converts the anchor into the
// sprite's top-left corner.
type Pattern struct {
	Name        string
	Offsets     []Offset
	Translation Offset
}

// MatcherSet is an ordered list of patterns. Earlier patterns take priority;
// some patterns match subsets of the others' pixels.
type MatcherSet []Pattern

// Default is the matcher set for the reference sprite.
var Default = MatcherSet{
	{
		Name:        "facing_up_hat_top",
		Offsets:     []Offset{{1, 0}, {2, 0}, {3, 0}, {4, 0}, {-1, 1}, {0, 1}, {1, 1}},
		Translation: Offset{-6, -2},
	},
	{
		// Only the backwards P shape; the hook covers the top part.
		Name:        "facing_up_hat_bottom",
		Offsets:     []Offset{{1, 0}, {0, 1}, {1, 1}, {1, 2}, {1, 3}, {1, 4}},
		Translation: Offset{-9, -7},
	},
	{
		Name:        "facing_right_hat_top",
		Offsets:     []Offset{{1, 0}, {-1, 1}, {0, 1}, {1, 1}, {-2, 2}, {-1, 2}, {0, 2}},
		Translation: Offset{-7, -1},
	},
	{
		Name:        "facing_right_hat_jiggling",
		Offsets:     []Offset{{5, 0}, {6, 0}, {6, -1}, {0, 1}, {1, 1}, {4, 1}, {5, 1}},
		Translation: Offset{-2, -2},
	},
	{
		Name: "right_facing_pot_pickup",
		Offsets: []Offset{
			{1, 0}, {6, 0}, {7, 0},
			{1, 1}, {6, 1}, {7, 1}, {8, 1},
			{7, 2}, {8, 2},
			{8, 3},
		},
		Translation: Offset{-3, -1},
	},
}

// Lookup returns the pattern with the passed name.
func (ms MatcherSet) Lookup(name string) (Pattern, bool) {
	for _, p := range ms {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Pixels returns the points an exact instance of the pattern anchored at
// anchor occupies, anchor included.
func (p Pattern) Pixels(anchor image.Point) []image.Point {
	pts := make([]image.Point, 0, len(p.Offsets)+1)
	pts = append(pts, anchor)
	for _, o := range p.Offsets {
		pts = append(pts, anchor.Add(image.Pt(o.DX, o.DY)))
	}
	return pts
}

// matchesAt reports whether every offset of the pattern, measured from
// anchor, is a candidate.
func (p Pattern) matchesAt(cs *CandidateSet, anchor image.Point) bool {
	for _, o := range p.Offsets {
		if !cs.Contains(anchor.Add(image.Pt(o.DX, o.DY))) {
			return false
		}
	}
	return true
}
