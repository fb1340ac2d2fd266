package rsi

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EncodeOptions control how a package is serialized. A nil *EncodeOptions is
// the same as the zero value.
type EncodeOptions struct {
	// Indent pretty-prints meta.json with this many spaces per level. Zero
	// writes compact JSON.
	Indent int
	// Parallelism is the maximum number of states whose sheets are assembled
	// at the same time. Values below 1 mean one at a time.
	Parallelism int
}

// WriteOptions control Write.
type WriteOptions struct {
	EncodeOptions
	// MakeParents creates missing parent directories of the package
	// directory.
	MakeParents bool
}

// Sheet is the sprite sheet of one state.
type Sheet struct {
	// Name is the canonical name of the state.
	Name  string
	Image *image.NRGBA
	// PNG is the encoded sheet.
	PNG []byte
}

// Encoded is a fully serialized package, held in memory.
type Encoded struct {
	Meta   []byte
	Sheets []Sheet
}

// Encode packs every state of r into a sprite sheet and renders meta.json.
//
// Nothing is returned unless every state could be packed. States appear in
// canonical name order both in the metadata and in Sheets.
func Encode(r *Rsi, opts *EncodeOptions) (*Encoded, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	states := r.States()

	doc := &metaDocument{
		Version:   LatestCompatibleVersion,
		Size:      metaSize{X: r.size.X, Y: r.size.Y},
		License:   r.License,
		Copyright: r.Copyright,
		States:    make([]metaState, len(states)),
	}
	sheets := make([]Sheet, len(states))

	err := forEachState(len(states), opts.Parallelism, func(i int) error {
		s := states[i]
		if err := validateState(s, r.size); err != nil {
			return err
		}
		ms := metaState{
			Name:       s.FullName(),
			Directions: s.Directions,
			Delays:     s.Delays(),
		}
		if len(s.Flags) > 0 {
			ms.Flags = s.Flags
		}
		doc.States[i] = ms

		img := packSheet(s, r.size)
		buf := &bytes.Buffer{}
		if err := png.Encode(buf, img); err != nil {
			return errors.Wrapf(err, "rsi: encoding sheet of state %q", ms.Name)
		}
		sheets[i] = Sheet{Name: ms.Name, Image: img, PNG: buf.Bytes()}
		glog.V(2).Infof("rsi: packed state %q: %d frames, sheet %v", ms.Name, s.FrameCount(), img.Bounds().Size())
		return nil
	})
	if err != nil {
		return nil, err
	}

	meta, err := marshalMeta(doc, opts.Indent)
	if err != nil {
		return nil, errors.Wrap(err, "rsi: encoding metadata")
	}
	return &Encoded{Meta: meta, Sheets: sheets}, nil
}

// validateState checks that s can be packed into a package of the passed
// size.
func validateState(s *State, size image.Point) error {
	name := s.FullName()
	if s.Size != size {
		return errors.Wrapf(ErrSizeMismatch, "state %q is %dx%d, package is %dx%d", name, s.Size.X, s.Size.Y, size.X, size.Y)
	}
	if !validDirections(s.Directions) {
		return formatErrorf(name, "direction count must be 1, 4 or 8, got %d", s.Directions)
	}
	if len(s.Frames) != s.Directions {
		return formatErrorf(name, "has frames for %d directions, want %d", len(s.Frames), s.Directions)
	}
	for d, frames := range s.Frames {
		if len(frames) == 0 {
			return formatErrorf(name, "direction %v has no frames", Direction(d))
		}
		for i, f := range frames {
			if f.Image == nil {
				return formatErrorf(name, "direction %v frame %d has no image", Direction(d), i)
			}
			if sz := f.Image.Bounds().Size(); sz != size {
				return errors.Wrapf(ErrSizeMismatch, "state %q direction %v frame %d is %dx%d, want %dx%d", name, Direction(d), i, sz.X, sz.Y, size.X, size.Y)
			}
			if !(f.Delay > 0) {
				return formatErrorf(name, "direction %v frame %d has non-positive delay %g", Direction(d), i, f.Delay)
			}
		}
	}
	return nil
}

// packSheet lays out all frames of s on a new sheet. Frames are taken
// direction by direction, and within a direction in order; frame i goes to
// column i%columns, row i/columns.
func packSheet(s *State, size image.Point) *image.NRGBA {
	columns, rows := GridSize(s.FrameCount())
	sheet := image.NewNRGBA(image.Rect(0, 0, columns*size.X, rows*size.Y))

	i := 0
	for _, frames := range s.Frames {
		for _, f := range frames {
			paste(sheet, cellRect(i, columns, size).Min, f.Image)
			i++
		}
	}
	return sheet
}

// Write serializes r into the directory at path: meta.json plus one
// <name>.png per state. The package is fully encoded before anything touches
// the filesystem.
func (r *Rsi) Write(path string, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	enc, err := Encode(r, &opts.EncodeOptions)
	if err != nil {
		return err
	}
	return enc.WriteTo(path, opts.MakeParents)
}

// WriteTo writes an encoded package into the directory at path, creating it
// if needed.
func (e *Encoded) WriteTo(path string, makeParents bool) error {
	if fi, err := os.Stat(path); err == nil {
		if !fi.IsDir() {
			return errors.Errorf("rsi: %q exists and is not a directory", path)
		}
	} else if os.IsNotExist(err) {
		mkdir := os.Mkdir
		if makeParents {
			mkdir = os.MkdirAll
		}
		if err := mkdir(path, 0755); err != nil {
			return errors.Wrapf(err, "rsi: creating %q", path)
		}
	} else {
		return errors.Wrapf(err, "rsi: checking %q", path)
	}

	if err := os.WriteFile(filepath.Join(path, MetaFileName), e.Meta, 0644); err != nil {
		return errors.Wrap(err, "rsi: writing metadata")
	}
	for _, sheet := range e.Sheets {
		if err := os.WriteFile(filepath.Join(path, SheetFileName(sheet.Name)), sheet.PNG, 0644); err != nil {
			return errors.Wrapf(err, "rsi: writing sheet of state %q", sheet.Name)
		}
	}
	glog.V(1).Infof("rsi: wrote %d states to %s", len(e.Sheets), path)
	return nil
}
