// Package locate finds the player sprite inside a reference-resolution
// screenshot.
//
// The search is a two step heuristic. First, every pixel exactly matching
// the hat color signature is recorded as a candidate. Then, a prioritized
// list of offset patterns (partial hat silhouettes for different facings and
// animation frames) is tested against the candidates; the first pattern for
// which some candidate has all required neighbours wins, and its anchor is
// translated into the sprite's top-left corner.
//
// Patterns were tuned against 256x224 frames. Results on frames of any other
// resolution are unspecified; the locator does not check, so callers must.
package locate
