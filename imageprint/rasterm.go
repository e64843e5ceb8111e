//go:build !windows

package imageprint

import (
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// printRasTerm draws an image using the RasTerm library.
//
// This should enable drawing in Kitty, iTerm2/WezTerm and Sixel terminals.
// Other terminals get nothing.
func printRasTerm(w io.Writer, i image.Image) error {
	var err error
	switch {
	case rasterm.IsTermKitty():
		err = rasterm.Settings{}.KittyWriteImage(w, i)
	case rasterm.IsTermItermWez():
		err = rasterm.Settings{}.ItermWriteImage(w, i)
	default:
		capable, cerr := rasterm.IsSixelCapable()
		if cerr != nil || !capable {
			return nil
		}
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.ZP)
		err = rasterm.Settings{}.SixelWriteImage(w, palettedImage)
	}
	if err != nil {
		return errors.Wrap(err, "rasterm")
	}
	_, err = io.WriteString(w, "\n")
	return err
}
