package frames

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/ttesting"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding %s: %v", path, err)
	}
}

func names(fs []Frame) string {
	var s []string
	for _, f := range fs {
		s = append(s, f.Name)
	}
	return strings.Join(s, ",")
}

func TestListOrdering(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"10.png", "2.png", "1.png", "title.png", "0003.png", "a.png"} {
		writePNG(t, filepath.Join(dir, n), ttesting.NewFrame(2, 2))
	}
	if err := os.Mkdir(filepath.Join(dir, "link_crops"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	fs, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := names(fs), "a.png,title.png,1.png,2.png,0003.png,10.png"; got != want {
		t.Errorf("got order %s; want %s", got, want)
	}
	if !fs[4].HasKey || fs[4].Key != 3 {
		t.Errorf("0003.png: got key %d (has key: %v); want 3", fs[4].Key, fs[4].HasKey)
	}
}

func TestListMissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Errorf("listing a missing directory succeeded")
	}
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "0.png")
	writePNG(t, good, ttesting.NewFrame(7, 5))
	bad := filepath.Join(dir, "1.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0644); err != nil {
		t.Fatalf("writing %s: %v", bad, err)
	}

	img, err := New(good).Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ttesting.AssertEqualPoint(t, "size", img.Bounds().Size(), image.Pt(7, 5))

	_, err = New(bad).Decode()
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v; want *DecodeError", err)
	}
	if de.Path != bad {
		t.Errorf("got path %q; want %q", de.Path, bad)
	}
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectSkipTake(t *testing.T) {
	items := seq(10)
	for s := 0; s <= 12; s++ {
		for n := 0; n <= 12; n++ {
			got := Select(items, Selection{Skip: s, Take: n})
			lo, hi := s, s+n
			if lo > len(items) {
				lo = len(items)
			}
			if hi > len(items) {
				hi = len(items)
			}
			if want := items[lo:hi]; !equalInts(got, want) {
				t.Errorf("skip=%d take=%d: got %v; want %v", s, n, got, want)
			}
		}
	}
}

func TestSelectStride(t *testing.T) {
	items := seq(10)
	for s := 0; s <= 10; s++ {
		for _, n := range []int{Unbounded, 0, 1, 2, 3, 10} {
			got := Select(items, Selection{Skip: s, Take: n, Stride: true})
			var want []int
			for i := s; i < len(items); i += 2 {
				if n != Unbounded && len(want) == n {
					break
				}
				want = append(want, items[i])
			}
			if !equalInts(got, want) {
				t.Errorf("skip=%d take=%d stride: got %v; want %v", s, n, got, want)
			}
		}
	}
}

func TestSelectAll(t *testing.T) {
	if got := Select(seq(5), All); !equalInts(got, seq(5)) {
		t.Errorf("got %v; want everything", got)
	}
}

func TestKeepStopsEarly(t *testing.T) {
	sel := Selection{Skip: 1, Take: 2}
	var visited int
	for pos := 0; ; pos++ {
		visited++
		if _, more := sel.Keep(pos); !more {
			break
		}
	}
	// Positions 0, 1 and 2; nothing after the last selected frame.
	ttesting.AssertEqualInt(t, "visited", visited, 3)
}

func TestSelectionValidate(t *testing.T) {
	if err := All.Validate(); err != nil {
		t.Errorf("All: %v", err)
	}
	if err := (Selection{Skip: -1, Take: Unbounded}).Validate(); err == nil {
		t.Errorf("negative skip accepted")
	}
	if err := (Selection{Take: -2}).Validate(); err == nil {
		t.Errorf("take=-2 accepted")
	}
}
