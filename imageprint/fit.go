package imageprint

import (
	"image"

	"github.com/nfnt/resize"
)

// TermSize is the size of a terminal in cells and, where the terminal reports
// it, in pixels.
type TermSize struct {
	Rows, Cols     uint
	XPixel, YPixel uint
}

// Fit shrinks img so that it fits in half of the terminal. Images printed as
// real pictures are measured against the pixel size when it is known; text
// output uses two columns per pixel. Images that already fit are returned
// unchanged.
func Fit(img image.Image, ts TermSize, mode Mode) image.Image {
	var maxW, maxH uint
	if (mode == ModeRasTerm || mode == ModeITerm) && ts.XPixel != 0 && ts.YPixel != 0 {
		maxW, maxH = ts.XPixel/2, ts.YPixel/2
	} else {
		maxW, maxH = ts.Cols/4, ts.Rows/2
	}
	if maxW == 0 || maxH == 0 {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}
