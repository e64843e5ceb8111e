package main

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/imageprint"
)

func previewer(mode imageprint.Mode) func(frames.Frame, image.Image) {
	return func(f frames.Frame, img image.Image) {
		fmt.Fprintf(os.Stdout, "%s:\n", f.Name)
		if err := imageprint.Print(os.Stdout, fit(img, mode), mode); err != nil {
			glog.Warningf("preview of %s: %v", f.Name, err)
		}
	}
}

func fit(img image.Image, mode imageprint.Mode) image.Image {
	if !*downsize {
		return img
	}
	ts, err := GetTermSize()
	if err != nil {
		glog.V(1).Infof("no terminal size: %v", err)
		return img
	}
	if mode == imageprint.RasTerm && ts.WSXPixel != 0 && ts.WSYPixel != 0 {
		// Graphics protocols draw real pixels, so the pixel size is the limit.
		return resize.Thumbnail(ts.WSXPixel/2, ts.WSYPixel/2, img, resize.NearestNeighbor)
	}
	if ts.WSCol < 2 || ts.WSRow < 2 {
		return img
	}
	// Each pixel takes two columns and one row.
	return resize.Thumbnail(ts.WSCol/2, ts.WSRow-1, img, resize.NearestNeighbor)
}
