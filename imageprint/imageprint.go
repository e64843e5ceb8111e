// Package imageprint prints images on a terminal. It is used to eyeball crops
// while they are being produced.
package imageprint

import (
	"fmt"
	"image"
	ic "image/color"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how pixels are drawn.
type Mode int

const (
	// TrueColor paints each pixel as two spaces with a 24-bit background
	// escape sequence.
	TrueColor Mode = iota
	// Color256 paints pixels using gookit/color, which degrades to what the
	// terminal supports.
	Color256
	// NoColor draws a shade-based ASCII approximation.
	NoColor
	// RasTerm sends the image itself using the Kitty, iTerm or Sixel
	// protocols, whichever the terminal speaks.
	RasTerm
)

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "24bit", "truecolor":
		return TrueColor, nil
	case "256", "col256":
		return Color256, nil
	case "none", "nocolor":
		return NoColor, nil
	case "rasterm":
		return RasTerm, nil
	}
	return 0, errors.Errorf("unknown print mode %q", s)
}

const reset = "\x1b[0m"

func shadeChars(c ic.Color) string {
	r, g, b, _ := c.RGBA()
	a := ((r + g + b) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

func cell(c ic.Color, mode Mode) string {
	n := ic.NRGBAModel.Convert(c).(ic.NRGBA)
	if n.A == 0 {
		if mode == NoColor {
			return "  "
		}
		return reset + "  "
	}
	switch mode {
	case NoColor:
		return shadeChars(c)
	case Color256:
		return color.RGB(n.R, n.G, n.B, true).Sprintf("  ")
	default:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  %s", n.R, n.G, n.B, reset)
	}
}

// Print draws img on w. Each pixel takes two columns so that pixels come out
// roughly square.
func Print(w io.Writer, img image.Image, mode Mode) error {
	if mode == RasTerm {
		return printRasTerm(w, img)
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, err := io.WriteString(w, cell(img.At(x, y), mode)); err != nil {
				return errors.Wrap(err, "printing image")
			}
		}
		eol := "\n"
		if mode != NoColor {
			eol = reset + "\n"
		}
		if _, err := io.WriteString(w, eol); err != nil {
			return errors.Wrap(err, "printing image")
		}
	}
	return nil
}
