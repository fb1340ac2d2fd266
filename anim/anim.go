// Package anim renders previews of a state's animation.
package anim

import (
	"image"
	"image/color"
	"image/gif"
	"math"

	"github.com/bradfitz/iter"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"badc0de.net/pkg/go-rsi/rsi"
)

// MaxScale is the largest accepted upscaling factor.
const MaxScale = 16

// Scale returns img enlarged factor times with nearest-neighbour sampling.
// The result has its origin at (0, 0).
func Scale(img image.Image, factor int) *image.NRGBA {
	if factor < 1 {
		factor = 1
	}
	sb := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, sb.Dx()*factor, sb.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
	return dst
}

// GIF returns an endlessly looping animation of the frames of s facing dir,
// each enlarged scale times.
//
// Palette index 0 is transparent; the remaining 255 colours are picked per
// frame with a median cut.
func GIF(s *rsi.State, dir rsi.Direction, scale int) (*gif.GIF, error) {
	if int(dir) < 0 || int(dir) >= s.Directions {
		return nil, errors.Errorf("anim: state %q has no direction %v", s.FullName(), dir)
	}
	if scale < 1 || scale > MaxScale {
		return nil, errors.Errorf("anim: scale must be between 1 and %d, got %d", MaxScale, scale)
	}
	frames := s.Frames[dir]
	if len(frames) == 0 {
		return nil, errors.Errorf("anim: state %q has no frames facing %v", s.FullName(), dir)
	}

	g := &gif.GIF{}
	q := quantize.MedianCutQuantizer{}
	for i := range iter.N(len(frames)) {
		img := Scale(frames[i].Image, scale)
		b := img.Bounds()

		pal := append(color.Palette{color.Transparent}, q.Quantize(make(color.Palette, 0, 255), img)...)
		p := image.NewPaletted(b, pal)
		// p starts out all transparent; drawing over it keeps transparent
		// pixels at index 0.
		draw.Draw(p, b, img, b.Min, draw.Over)

		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, gifDelay(frames[i].Delay))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0
	return g, nil
}

// gifDelay converts seconds to the hundredths of a second GIF uses.
func gifDelay(seconds float64) int {
	d := int(math.Round(seconds * 100))
	if d < 1 {
		d = 1
	}
	return d
}
