package rsi

import (
	"image"
	"sort"

	"github.com/pkg/errors"
)

// LatestCompatibleVersion is the meta.json format revision written by this
// package, and the newest one it can read.
const LatestCompatibleVersion = 1

// Rsi is an in-memory sprite package: a set of states sharing one icon size.
type Rsi struct {
	size image.Point

	// License is an optional SPDX license identifier.
	License string
	// Copyright is optional free-form attribution.
	Copyright string

	// states are kept unkeyed; their canonical name is derived on demand so
	// that renaming a state never leaves a stale key behind.
	states []*State
}

// New creates an empty package whose states are all of the passed size.
func New(size image.Point) *Rsi {
	return &Rsi{size: size}
}

// Size returns the icon size shared by every state in the package.
func (r *Rsi) Size() image.Point {
	return r.size
}

// SetState adds s to the package, replacing any state with the same
// canonical name.
func (r *Rsi) SetState(s *State) error {
	if s.Size != r.size {
		return errors.Wrapf(ErrSizeMismatch, "state %q is %dx%d, package is %dx%d", s.FullName(), s.Size.X, s.Size.Y, r.size.X, r.size.Y)
	}
	name := s.FullName()
	for i, existing := range r.states {
		if existing.FullName() == name {
			r.states[i] = s
			return nil
		}
	}
	r.states = append(r.states, s)
	return nil
}

// NewState creates a state of the package's size, adds it to the package and
// returns it.
func (r *Rsi) NewState(directions int, name string) *State {
	s := NewState(name, r.size, directions)
	// Cannot fail: the size is ours.
	r.SetState(s)
	return s
}

// State returns the state with the passed canonical name, or nil.
func (r *Rsi) State(fullName string) *State {
	for _, s := range r.states {
		if s.FullName() == fullName {
			return s
		}
	}
	return nil
}

// RemoveState removes the state with the passed canonical name. It reports
// whether a state was removed.
func (r *Rsi) RemoveState(fullName string) bool {
	for i, s := range r.states {
		if s.FullName() == fullName {
			r.states = append(r.states[:i], r.states[i+1:]...)
			return true
		}
	}
	return false
}

// States returns the states sorted by canonical name.
func (r *Rsi) States() []*State {
	states := append([]*State(nil), r.states...)
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].FullName() < states[j].FullName()
	})
	return states
}

// Len returns the number of states.
func (r *Rsi) Len() int {
	return len(r.states)
}
