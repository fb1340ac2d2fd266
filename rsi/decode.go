package rsi

import (
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// SheetOpener returns the decoded sprite sheet of the state with the passed
// canonical name.
type SheetOpener func(fullName string) (image.Image, error)

// DecodeOptions control Decode. A nil *DecodeOptions is the same as the zero
// value.
type DecodeOptions struct {
	// Parallelism is the maximum number of sheets cut up at the same time.
	Parallelism int
}

// Decode reads a package from its metadata document and the sheets returned
// by open.
//
// Each state's sheet is cut into cells of the package size, which are handed
// out to the state's directions in order; a direction with delays gets one
// frame per delay, a direction without delays gets a single frame lasting one
// second.
func Decode(meta io.Reader, open SheetOpener, opts *DecodeOptions) (*Rsi, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	m, err := unmarshalMeta(meta)
	if err != nil {
		return nil, err
	}

	r := New(image.Pt(*m.Size.X, *m.Size.Y))
	if m.License != nil {
		r.License = *m.License
	}
	if m.Copyright != nil {
		r.Copyright = *m.Copyright
	}

	states := make([]*State, len(m.States))
	err = forEachState(len(m.States), opts.Parallelism, func(i int) error {
		s, err := decodeState(&m.States[i], r.size, open)
		states[i] = s
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if err := r.SetState(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func decodeState(ms *incomingState, size image.Point, open SheetOpener) (*State, error) {
	if ms.Name == nil {
		return nil, formatErrorf("", "state is missing a name")
	}
	fullName := *ms.Name

	directions := 1
	if ms.Directions != nil {
		directions = *ms.Directions
	}
	if !validDirections(directions) {
		return nil, formatErrorf(fullName, "direction count must be 1, 4 or 8, got %d", directions)
	}
	if len(ms.Delays) != 0 && len(ms.Delays) != directions {
		return nil, formatErrorf(fullName, "has delays for %d directions, want %d", len(ms.Delays), directions)
	}

	// Frames per direction, as implied by the delays.
	counts := make([]int, directions)
	total := 0
	for d := range counts {
		counts[d] = 1
		if len(ms.Delays) != 0 && len(ms.Delays[d]) != 0 {
			counts[d] = len(ms.Delays[d])
			for i, delay := range ms.Delays[d] {
				if !(delay > 0) {
					return nil, formatErrorf(fullName, "direction %v frame %d has non-positive delay %g", Direction(d), i, delay)
				}
			}
		}
		total += counts[d]
	}

	sheet, err := open(fullName)
	if err != nil {
		return nil, formatErrorf(fullName, "cannot open sheet: %v", err)
	}
	sb := sheet.Bounds()
	if sb.Dx()%size.X != 0 || sb.Dy()%size.Y != 0 {
		return nil, formatErrorf(fullName, "sheet is %dx%d, not a multiple of %dx%d", sb.Dx(), sb.Dy(), size.X, size.Y)
	}
	columns, rows := sb.Dx()/size.X, sb.Dy()/size.Y
	if total > columns*rows {
		return nil, formatErrorf(fullName, "delays describe %d frames, sheet only holds %d", total, columns*rows)
	}

	name, selectors := ParseStateName(fullName)
	s := NewState(name, size, directions)
	s.Selectors = selectors
	if ms.Flags != nil {
		s.Flags = ms.Flags
	}

	i := 0
	for d := 0; d < directions; d++ {
		s.Frames[d] = make([]Frame, counts[d])
		for f := 0; f < counts[d]; f++ {
			delay := 1.0
			if len(ms.Delays) != 0 && len(ms.Delays[d]) != 0 {
				delay = ms.Delays[d][f]
			}
			cell := cellRect(i, columns, size).Add(sb.Min)
			s.Frames[d][f] = Frame{Image: crop(sheet, cell), Delay: delay}
			i++
		}
	}
	glog.V(2).Infof("rsi: unpacked state %q: %d frames from a %dx%d grid", fullName, total, columns, rows)
	return s, nil
}

// OpenFS reads a package whose meta.json and sheets are at the root of fsys.
func OpenFS(fsys fs.FS, opts *DecodeOptions) (*Rsi, error) {
	f, err := fsys.Open(MetaFileName)
	if err != nil {
		return nil, errors.Wrap(err, "rsi: opening metadata")
	}
	defer f.Close()

	return Decode(f, func(fullName string) (image.Image, error) {
		sf, err := fsys.Open(SheetFileName(fullName))
		if err != nil {
			return nil, err
		}
		defer sf.Close()
		return png.Decode(sf)
	}, opts)
}

// Open reads the package stored in the directory at path.
func Open(path string, opts *DecodeOptions) (*Rsi, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "rsi: opening %q", path)
	}
	if !fi.IsDir() {
		return nil, errors.Errorf("rsi: %q is not a directory", path)
	}
	return OpenFS(os.DirFS(path), opts)
}
