package dmi

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/rsi"
)

// Icon is a decoded .dmi file.
type Icon struct {
	// Version is the description format version, as written.
	Version string
	Width   int
	Height  int
	States  []State

	// Image is the whole icon sheet.
	Image image.Image
}

// Decode reads a .dmi file. Any failure to make sense of the file is reported
// as an error wrapping rsi.ErrImportSourceUnavailable.
func Decode(r io.Reader) (*Icon, error) {
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, unavailable(err, "could not read dmi")
	}

	text, err := findDescription(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, unavailable(err, "could not find dmi description")
	}
	desc, err := parseDescription(text)
	if err != nil {
		return nil, unavailable(err, "could not parse dmi description")
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, unavailable(err, "could not decode dmi image")
	}

	icon := &Icon{
		Version: desc.Version,
		Width:   desc.Width,
		Height:  desc.Height,
		States:  desc.States,
		Image:   img,
	}
	glog.V(2).Infof("dmi: version %s, %dx%d icons, %d states, sheet %v", icon.Version, icon.Width, icon.Height, len(icon.States), img.Bounds().Size())
	return icon, nil
}

// DecodeFile reads the .dmi file at path.
func DecodeFile(path string) (*Icon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(err, "could not open dmi")
	}
	defer f.Close()
	return Decode(f)
}

func unavailable(err error, msg string) error {
	return errors.Wrapf(rsi.ErrImportSourceUnavailable, "dmi: %s: %v", msg, err)
}

// columns returns the number of icons per row of the sheet.
func (i *Icon) columns() int {
	return i.Image.Bounds().Dx() / i.Width
}

// Frame returns a copy of one icon of the state with the passed index, facing
// the direction given as a BYOND bitmask.
func (i *Icon) Frame(state, dirMask, frame int) (image.Image, error) {
	if state < 0 || state >= len(i.States) {
		return nil, errors.Errorf("dmi: no state with index %d", state)
	}
	s := &i.States[state]
	dir, ok := rsi.DirectionFromByond(dirMask)
	if !ok || int(dir) >= s.Dirs {
		return nil, errors.Errorf("dmi: state %q has no direction %d", s.Name, dirMask)
	}
	if frame < 0 || frame >= s.Frames {
		return nil, errors.Errorf("dmi: state %q has no frame %d", s.Name, frame)
	}

	n := s.first + frame*s.Dirs + int(dir)
	columns := i.columns()
	if columns < 1 {
		return nil, errors.Errorf("dmi: sheet is narrower than one %d pixel icon", i.Width)
	}
	min := i.Image.Bounds().Min.Add(image.Pt((n%columns)*i.Width, (n/columns)*i.Height))
	r := image.Rectangle{Min: min, Max: min.Add(image.Pt(i.Width, i.Height))}
	if !r.In(i.Image.Bounds()) {
		return nil, errors.Errorf("dmi: icon %d of state %q lies outside the %v sheet", n, s.Name, i.Image.Bounds().Size())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, i.Width, i.Height))
	draw.Draw(dst, dst.Bounds(), i.Image, r.Min, draw.Src)
	return dst, nil
}

// IconSize implements rsi.ForeignSource.
func (i *Icon) IconSize() image.Point {
	return image.Pt(i.Width, i.Height)
}

// ForeignStates implements rsi.ForeignSource.
func (i *Icon) ForeignStates() ([]rsi.ForeignState, error) {
	states := make([]rsi.ForeignState, len(i.States))
	for idx := range i.States {
		idx := idx
		s := &i.States[idx]
		if len(s.Delays) > s.Frames {
			glog.V(1).Infof("dmi: state %q lists %d delays for %d frames", s.Name, len(s.Delays), s.Frames)
		}
		states[idx] = rsi.ForeignState{
			Name:   s.Name,
			Dirs:   s.Dirs,
			Frames: s.Frames,
			Delays: s.Delays,
			Frame: func(dirMask, frame int) (image.Image, error) {
				return i.Frame(idx, dirMask, frame)
			},
		}
	}
	return states, nil
}
