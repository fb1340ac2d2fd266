package rsi

import (
	"fmt"
	"image"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/ttesting"
)

// fakeSource is a foreign container whose icons are numbered by BYOND
// direction mask and frame.
type fakeSource struct {
	size   image.Point
	states []ForeignState
	err    error
}

func (f *fakeSource) IconSize() image.Point { return f.size }

func (f *fakeSource) ForeignStates() ([]ForeignState, error) { return f.states, f.err }

func iconNumber(dirMask, frame int) int { return dirMask*16 + frame }

func (f *fakeSource) state(name string, dirs, frames int, delays ...float64) ForeignState {
	return ForeignState{
		Name:   name,
		Dirs:   dirs,
		Frames: frames,
		Delays: delays,
		Frame: func(dirMask, frame int) (image.Image, error) {
			if frame >= frames {
				return nil, fmt.Errorf("frame %d out of range", frame)
			}
			return ttesting.Numbered(f.size.X, f.size.Y, iconNumber(dirMask, frame)), nil
		},
	}
}

func TestImportDelays(t *testing.T) {
	src := &fakeSource{size: image.Pt(2, 2)}
	src.states = []ForeignState{
		src.state("anim", 1, 2, 7, 3),
		src.state("static", 1, 1, 4),
		src.state("truncated", 1, 3, 1, 2, 3, 4, 5),
		src.state("defaulted", 1, 3, 5),
		src.state("zero", 1, 2, 0, 2),
	}
	r, err := Import(src, &ImportOptions{License: "CC0-1.0", Copyright: "nobody"})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	ttesting.AssertEqualString(t, "license", r.License, "CC0-1.0")
	ttesting.AssertEqualString(t, "copyright", r.Copyright, "nobody")

	tests := []struct {
		state  string
		delays []float64
	}{
		{"anim", []float64{0.7, 0.3}},
		{"static", []float64{1.0}},
		{"truncated", []float64{0.1, 0.2, 0.3}},
		{"defaulted", []float64{0.5, 0.1, 0.1}},
		{"zero", []float64{0.1, 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			s := r.State(tt.state)
			if s == nil {
				t.Fatalf("state missing")
			}
			got := s.Delays()[South]
			if fmt.Sprint(got) != fmt.Sprint(tt.delays) {
				t.Errorf("got delays %v; want %v", got, tt.delays)
			}
		})
	}
}

func TestImportDirections(t *testing.T) {
	src := &fakeSource{size: image.Pt(1, 1)}
	src.states = []ForeignState{src.state("eight", 8, 2, 1, 1)}
	r, err := Import(src, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	s := r.State("eight")
	ttesting.AssertEqualInt(t, "directions", s.Directions, 8)
	for d := South; d <= NorthWest; d++ {
		for f := 0; f < 2; f++ {
			want := ttesting.Numbered(1, 1, iconNumber(d.Byond(), f))
			ttesting.AssertImagesEqual(t, fmt.Sprintf("%v frame %d", d, f), s.Frames[d][f].Image, want)
		}
	}
}

func TestImportErrors(t *testing.T) {
	t.Run("unsupported directions", func(t *testing.T) {
		src := &fakeSource{size: image.Pt(1, 1)}
		src.states = []ForeignState{src.state("three", 3, 1)}
		if _, err := Import(src, nil); !errors.Is(err, ErrUnsupportedDirection) {
			t.Errorf("got %v; want ErrUnsupportedDirection", err)
		}
	})
	t.Run("no frames", func(t *testing.T) {
		src := &fakeSource{size: image.Pt(1, 1)}
		src.states = []ForeignState{src.state("empty", 1, 0)}
		if _, err := Import(src, nil); !errors.Is(err, ErrFormat) {
			t.Errorf("got %v; want a format error", err)
		}
	})
	t.Run("source failure", func(t *testing.T) {
		src := &fakeSource{size: image.Pt(1, 1), err: ErrImportSourceUnavailable}
		if _, err := Import(src, nil); !errors.Is(err, ErrImportSourceUnavailable) {
			t.Errorf("got %v; want ErrImportSourceUnavailable", err)
		}
	})
	t.Run("wrong icon size", func(t *testing.T) {
		src := &fakeSource{size: image.Pt(2, 2)}
		st := src.state("odd", 1, 1)
		st.Frame = func(int, int) (image.Image, error) { return ttesting.Numbered(3, 3, 0), nil }
		src.states = []ForeignState{st}
		if _, err := Import(src, nil); !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("got %v; want ErrSizeMismatch", err)
		}
	})
}

func TestImportDuplicateKeepsLast(t *testing.T) {
	src := &fakeSource{size: image.Pt(1, 1)}
	src.states = []ForeignState{
		src.state("dup", 1, 1),
		src.state("dup", 4, 1),
	}
	r, err := Import(src, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	ttesting.AssertEqualInt(t, "states", r.Len(), 1)
	ttesting.AssertEqualInt(t, "directions", r.State("dup").Directions, 4)
}
