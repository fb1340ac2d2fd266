package rsi

import (
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ForeignState describes one state of a foreign sprite container, in that
// container's own terms.
type ForeignState struct {
	Name string
	// Dirs is the number of directions (1, 4 or 8).
	Dirs int
	// Frames is the number of frames per direction.
	Frames int
	// Delays holds one delay per frame, in deciseconds. It may be longer or
	// shorter than Frames.
	Delays []float64
	// Frame returns the icon for a BYOND direction bitmask and a frame
	// index.
	Frame func(dirMask, frame int) (image.Image, error)
}

// ForeignSource is a sprite container that can be imported into a package.
type ForeignSource interface {
	// IconSize is the size of every icon in the container.
	IconSize() image.Point
	// ForeignStates lists the container's states in container order.
	ForeignStates() ([]ForeignState, error)
}

// ImportOptions are applied to an imported package.
type ImportOptions struct {
	License   string
	Copyright string
}

// defaultForeignDelay is used for frames whose delay is missing or not
// positive, in deciseconds.
const defaultForeignDelay = 1

// Import converts a foreign sprite container into a package.
//
// Foreign delays are in deciseconds and are converted to seconds. A
// single-frame state is static, so it always gets a delay of one second.
// Foreign containers have a single delay list per state; it is used for every
// direction.
func Import(src ForeignSource, opts *ImportOptions) (*Rsi, error) {
	foreign, err := src.ForeignStates()
	if err != nil {
		return nil, err
	}

	r := New(src.IconSize())
	if opts != nil {
		r.License = opts.License
		r.Copyright = opts.Copyright
	}

	for _, fs := range foreign {
		s, err := importState(fs, r.size)
		if err != nil {
			return nil, err
		}
		if prev := r.State(s.FullName()); prev != nil {
			glog.Warningf("rsi: duplicate foreign state %q; keeping the last one", fs.Name)
		}
		if err := r.SetState(s); err != nil {
			return nil, err
		}
	}
	glog.V(1).Infof("rsi: imported %d foreign states into %d states", len(foreign), r.Len())
	return r, nil
}

func importState(fs ForeignState, size image.Point) (*State, error) {
	if !validDirections(fs.Dirs) {
		return nil, errors.Wrapf(ErrUnsupportedDirection, "state %q has %d directions", fs.Name, fs.Dirs)
	}
	if fs.Frames < 1 {
		return nil, formatErrorf(fs.Name, "foreign state has %d frames", fs.Frames)
	}
	if len(fs.Delays) > fs.Frames {
		// Known upstream quirk; the extra entries mean nothing.
		glog.V(1).Infof("rsi: foreign state %q has %d delays for %d frames; ignoring the excess", fs.Name, len(fs.Delays), fs.Frames)
	}

	delays := make([]float64, fs.Frames)
	for y := range delays {
		if fs.Frames == 1 {
			delays[y] = 1.0
			continue
		}
		ds := float64(defaultForeignDelay)
		if y < len(fs.Delays) && fs.Delays[y] > 0 {
			ds = fs.Delays[y]
		}
		delays[y] = ds / 10
	}

	s := NewState(fs.Name, size, fs.Dirs)
	for x := 0; x < fs.Dirs; x++ {
		dir := Direction(x)
		for y := 0; y < fs.Frames; y++ {
			img, err := fs.Frame(dir.Byond(), y)
			if err != nil {
				return nil, errors.Wrapf(err, "rsi: fetching frame %d of state %q facing %v", y, fs.Name, dir)
			}
			if err := s.AddFrame(dir, img, delays[y]); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}
