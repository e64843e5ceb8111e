package imageprint

import (
	"image"
	"io"

	"github.com/pkg/errors"
)

func printRasTerm(w io.Writer, i image.Image) error {
	return errors.New("rasterm printing is not supported on windows")
}
