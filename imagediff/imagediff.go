// Package imagediff highlights how the frames of a sprite sheet differ from a
// reference frame.
package imagediff

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrSizeMismatch is returned when the source is not a whole number of target
// sized frames.
var ErrSizeMismatch = errors.New("imagediff: source is not a multiple of the target size")

// Diff tiles target over source and keeps only the source pixels that differ
// from it. Colours are compared on RGB only.
//
// Black source pixels, and source pixels equal to the target pixel at the
// same position within the frame, become transparent. Every other pixel is
// copied from the source as fully opaque.
func Diff(source, target image.Image) (*image.RGBA, error) {
	sb, tb := source.Bounds(), target.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw <= 0 || th <= 0 || sb.Dx() < tw || sb.Dy() < th || sb.Dx()%tw != 0 || sb.Dy()%th != 0 {
		return nil, errors.Wrapf(ErrSizeMismatch, "source is %v, target is %v", sb.Size(), tb.Size())
	}

	out := image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	changed := 0
	for y := 0; y < sb.Dy(); y++ {
		for x := 0; x < sb.Dx(); x++ {
			s := rgb(source.At(sb.Min.X+x, sb.Min.Y+y))
			if s == (color.RGBA{A: 0xFF}) {
				continue
			}
			if s == rgb(target.At(tb.Min.X+x%tw, tb.Min.Y+y%th)) {
				continue
			}
			out.SetRGBA(x, y, s)
			changed++
		}
	}
	glog.V(2).Infof("imagediff: %d of %d pixels differ", changed, sb.Dx()*sb.Dy())
	return out, nil
}

// rgb returns c's non-premultiplied colour with full opacity.
func rgb(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xFF}
}

// DiffFiles runs Diff on two PNG files and writes the result to output as
// PNG.
func DiffFiles(source, target, output string) error {
	src, err := decodeFile(source)
	if err != nil {
		return err
	}
	tgt, err := decodeFile(target)
	if err != nil {
		return err
	}
	out, err := Diff(src, tgt)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "imagediff: creating output")
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return errors.Wrap(err, "imagediff: encoding output")
	}
	return errors.Wrap(f.Close(), "imagediff: closing output")
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "imagediff")
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "imagediff: decoding %s", path)
	}
	return img, nil
}
