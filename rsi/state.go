package rsi

import (
	"image"

	"github.com/pkg/errors"
)

// Frame is a single icon of an animation together with the time, in seconds,
// it stays on screen.
type Frame struct {
	Image image.Image
	Delay float64
}

// State is one named animation of a package.
type State struct {
	// Name is the base name of the state, without selectors.
	Name string
	// Selectors are modifiers appended to the on-disk name. Order is
	// irrelevant; they are sorted when the name is composed.
	Selectors []string
	// Flags is opaque metadata, persisted verbatim.
	Flags map[string]interface{}

	Size       image.Point
	Directions int

	// Frames holds, for each direction index, the ordered frames of that
	// direction.
	Frames [][]Frame
}

// NewState creates a state with no frames. directions should be 1, 4 or 8.
func NewState(name string, size image.Point, directions int) *State {
	return &State{
		Name:       name,
		Flags:      map[string]interface{}{},
		Size:       size,
		Directions: directions,
		Frames:     make([][]Frame, directions),
	}
}

// FullName returns the canonical on-disk name of the state.
func (s *State) FullName() string {
	return StateName(s.Name, s.Selectors)
}

// AddFrame appends a frame to the passed direction.
func (s *State) AddFrame(dir Direction, img image.Image, delay float64) error {
	if int(dir) < 0 || int(dir) >= s.Directions {
		return errors.Errorf("rsi: state %q has %d directions, cannot add frame to %v", s.FullName(), s.Directions, dir)
	}
	if sz := img.Bounds().Size(); sz != s.Size {
		return errors.Wrapf(ErrSizeMismatch, "state %q: frame is %dx%d, want %dx%d", s.FullName(), sz.X, sz.Y, s.Size.X, s.Size.Y)
	}
	if !(delay > 0) {
		return errors.Errorf("rsi: state %q: delay must be positive, got %g", s.FullName(), delay)
	}
	s.Frames[dir] = append(s.Frames[dir], Frame{Image: img, Delay: delay})
	return nil
}

// FrameCount returns the number of frames over all directions.
func (s *State) FrameCount() int {
	count := 0
	for _, frames := range s.Frames {
		count += len(frames)
	}
	return count
}

// Delays returns the delays of each direction, in seconds.
func (s *State) Delays() [][]float64 {
	delays := make([][]float64, len(s.Frames))
	for d, frames := range s.Frames {
		delays[d] = make([]float64, len(frames))
		for i, f := range frames {
			delays[d][i] = f.Delay
		}
	}
	return delays
}

// Renamed returns a copy of the state carrying a different base name and no
// selectors. Frames and flags are shared with the original, which is left
// untouched.
func (s *State) Renamed(name string) *State {
	cp := *s
	cp.Name = name
	cp.Selectors = nil
	return &cp
}
