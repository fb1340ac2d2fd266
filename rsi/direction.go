package rsi

import (
	"fmt"
)

// Direction is the facing of a state's frames. The value of a Direction is
// also its index inside State.Frames.
type Direction int

const (
	South Direction = iota
	North
	East
	West

	SouthEast
	SouthWest
	NorthEast
	NorthWest
)

// Direction bits used by BYOND.
const (
	byondNorth = 1
	byondSouth = 2
	byondEast  = 4
	byondWest  = 8
)

// Byond returns the BYOND direction bitmask for the direction.
//
// Panics if d is not one of the eight known directions.
func (d Direction) Byond() int {
	switch d {
	case North:
		return byondNorth
	case South:
		return byondSouth
	case East:
		return byondEast
	case West:
		return byondWest
	case SouthEast:
		return byondSouth | byondEast
	case SouthWest:
		return byondSouth | byondWest
	case NorthEast:
		return byondNorth | byondEast
	case NorthWest:
		return byondNorth | byondWest
	}
	panic(fmt.Sprintf("rsi: no BYOND mapping for direction %d", int(d)))
}

// DirectionFromByond maps a BYOND direction bitmask back to a Direction.
func DirectionFromByond(mask int) (Direction, bool) {
	for d := South; d <= NorthWest; d++ {
		if d.Byond() == mask {
			return d, true
		}
	}
	return 0, false
}

func (d Direction) String() string {
	switch d {
	case South:
		return "SOUTH"
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	case SouthEast:
		return "SOUTH_EAST"
	case SouthWest:
		return "SOUTH_WEST"
	case NorthEast:
		return "NORTH_EAST"
	case NorthWest:
		return "NORTH_WEST"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// validDirections reports whether n is a direction count a state may have.
func validDirections(n int) bool {
	return n == 1 || n == 4 || n == 8
}
