package sprites

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/locate"
)

const (
	// UpscaledWidth is the width of upscaled previews. The height follows
	// from the square aspect ratio.
	UpscaledWidth = 16 * 16
	// padX is added on each side to square the 16x24 preview.
	padX = 4
)

// ErrPreviewSize is returned for previews that are not 16x24.
var ErrPreviewSize = errors.New("preview is not 16x24")

// Upscale squares a 16x24 preview with white side margins, flattens it
// onto white and magnifies it to 256x256 with nearest neighbour sampling.
func Upscale(img image.Image) (image.Image, error) {
	b := img.Bounds()
	if b.Size() != locate.SpriteSize {
		return nil, errors.Wrapf(ErrPreviewSize, "got %dx%d", b.Dx(), b.Dy())
	}

	side := locate.SpriteSize.Y
	sq := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(sq, sq.Bounds(), image.White, image.Point{}, draw.Src)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 0xff
			sq.SetNRGBA(x+padX, y, c)
		}
	}

	return resize.Resize(UpscaledWidth, 0, sq, resize.NearestNeighbor), nil
}
