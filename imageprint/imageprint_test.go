package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/go-spriteloop/ttesting"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	img.SetNRGBA(2, 1, color.NRGBA{R: 123, G: 189, B: 33, A: 255})
	return img
}

func TestPrintNoColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, testImage(), NoColor); err != nil {
		t.Fatalf("Print: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	ttesting.AssertEqualInt(t, "lines", len(lines), 2)
	if lines[0] != "##..  " {
		t.Errorf("got first line %q; want %q", lines[0], "##..  ")
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("escape sequence in colorless output: %q", buf.String())
	}
}

func TestPrintTrueColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, testImage(), TrueColor); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[48;2;123;189;33m") {
		t.Errorf("hat color missing from output %q", buf.String())
	}
	ttesting.AssertEqualInt(t, "lines", strings.Count(buf.String(), "\n"), 2)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": TrueColor, "256": Color256, "none": NoColor, "rasterm": RasTerm} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("braille"); err == nil {
		t.Errorf("ParseMode(braille) succeeded")
	}
}
