package rsi

import (
	"fmt"
	"image"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-rsi/ttesting"
)

func TestStateName(t *testing.T) {
	selectors := []string{"red", "big"}
	ttesting.AssertEqualString(t, "selectors sorted", StateName("walk", selectors), "walk+big+red")
	ttesting.AssertEqualString(t, "no selectors", StateName("walk", nil), "walk")
	ttesting.AssertEqualString(t, "empty selectors", StateName("walk", []string{}), "walk")
	ttesting.AssertEqualString(t, "byte order", StateName("s", []string{"b", "B", "a"}), "s+B+a+b")
	ttesting.AssertEqualString(t, "input untouched", selectors[0], "red")
}

func TestParseStateName(t *testing.T) {
	for _, full := range []string{"walk", "walk+big+red", "walk+red+big", "a+b", "idle+"} {
		name, selectors := ParseStateName(full)
		ttesting.AssertEqualString(t, full, StateName(name, selectors), full)
	}
	name, selectors := ParseStateName("walk+big+red")
	ttesting.AssertEqualString(t, "base", name, "walk")
	ttesting.AssertEqualInt(t, "selector count", len(selectors), 2)

	name, selectors = ParseStateName("walk+red+big")
	ttesting.AssertEqualString(t, "unsorted base", name, "walk+red+big")
	ttesting.AssertEqualInt(t, "unsorted selector count", len(selectors), 0)
}

func TestDirectionByond(t *testing.T) {
	want := map[Direction]int{
		North:     1,
		South:     2,
		East:      4,
		West:      8,
		SouthEast: 6,
		SouthWest: 10,
		NorthEast: 5,
		NorthWest: 9,
	}
	for d, mask := range want {
		ttesting.AssertEqualInt(t, d.String(), d.Byond(), mask)
		back, ok := DirectionFromByond(mask)
		if !ok || back != d {
			t.Errorf("DirectionFromByond(%d) = %v, %v; want %v, true", mask, back, ok, d)
		}
	}
	if _, ok := DirectionFromByond(3); ok {
		t.Errorf("DirectionFromByond(3) should not map to a direction")
	}
}

func TestDirectionByondPanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Byond() on an unknown direction did not panic")
		}
	}()
	Direction(8).Byond()
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		count, columns, rows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
		{16, 4, 4},
		{17, 5, 4},
		{32, 6, 6},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d frames", tt.count), func(t *testing.T) {
			columns, rows := GridSize(tt.count)
			if columns != tt.columns || rows != tt.rows {
				t.Errorf("GridSize(%d) = (%d, %d); want (%d, %d)", tt.count, columns, rows, tt.columns, tt.rows)
			}
		})
	}
}

func TestSetStateReplacesByCanonicalName(t *testing.T) {
	r := New(image.Pt(32, 32))
	first := NewState("walk", image.Pt(32, 32), 1)
	first.Selectors = []string{"red", "big"}
	second := NewState("walk", image.Pt(32, 32), 4)
	second.Selectors = []string{"big", "red"}

	if err := r.SetState(first); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	if err := r.SetState(second); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	ttesting.AssertEqualInt(t, "one state", r.Len(), 1)
	if r.State("walk+big+red") != second {
		t.Errorf("later state did not replace the earlier one")
	}
}

func TestSetStateSizeMismatch(t *testing.T) {
	r := New(image.Pt(32, 32))
	err := r.SetState(NewState("big", image.Pt(64, 64), 1))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("got %v; want ErrSizeMismatch", err)
	}
}

func TestAddFrame(t *testing.T) {
	s := NewState("idle", image.Pt(8, 8), 4)
	if err := s.AddFrame(West, ttesting.Numbered(8, 8, 1), 0.5); err != nil {
		t.Fatalf("AddFrame: %v", err)
	}
	ttesting.AssertEqualInt(t, "frame count", s.FrameCount(), 1)
	ttesting.AssertEqualInt(t, "west frames", len(s.Frames[West]), 1)

	if err := s.AddFrame(West, ttesting.Numbered(4, 8, 1), 0.5); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("wrong-sized frame: got %v; want ErrSizeMismatch", err)
	}
	if err := s.AddFrame(NorthEast, ttesting.Numbered(8, 8, 1), 0.5); err == nil {
		t.Errorf("frame for a fifth direction on a 4-direction state was accepted")
	}
	if err := s.AddFrame(South, ttesting.Numbered(8, 8, 1), 0); err == nil {
		t.Errorf("zero delay was accepted")
	}
}

func TestStatesSorted(t *testing.T) {
	r := New(image.Pt(1, 1))
	for _, name := range []string{"walk", "Idle", "attack", "walk-2"} {
		r.NewState(1, name)
	}
	var got []string
	for _, s := range r.States() {
		got = append(got, s.FullName())
	}
	want := []string{"Idle", "attack", "walk", "walk-2"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v; want %v", got, want)
	}

	if !r.RemoveState("walk") || r.State("walk") != nil {
		t.Errorf("RemoveState did not remove walk")
	}
	if r.RemoveState("walk") {
		t.Errorf("RemoveState removed walk twice")
	}
}

func TestRenamedLeavesOriginal(t *testing.T) {
	s := NewState("ak-20", image.Pt(1, 1), 1)
	s.Selectors = []string{"red"}
	cp := s.Renamed("20")
	ttesting.AssertEqualString(t, "copy", cp.FullName(), "20")
	ttesting.AssertEqualString(t, "original", s.FullName(), "ak-20+red")
}
