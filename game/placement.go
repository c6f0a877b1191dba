package game

import (
	"errors"
	"fmt"
)

var ErrInvalidPlacement = errors.New("invalid placement")

// Placement names the anchor cell of a shape: a column letter a-h followed by
// a row digit 1-8, e.g. "a1" for the top-left cell.
type Placement string

var placements = func() [Size][Size]Placement {
	var table [Size][Size]Placement
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			table[x][y] = Placement([]byte{byte('a' + x), byte('1' + y)})
		}
	}
	return table
}()

// PlacementAt returns the placement for column x and row y. It panics when
// the coordinates are off the board.
func PlacementAt(x, y int) Placement {
	return placements[x][y]
}

func ParsePlacement(s string) (x, y int, err error) {
	x, y, ok := Placement(s).Coords()
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidPlacement, s)
	}
	return x, y, nil
}

func (p Placement) Coords() (x, y int, ok bool) {
	if len(p) != 2 {
		return 0, 0, false
	}
	col, row := p[0], p[1]
	if col < 'a' || col >= 'a'+Size || row < '1' || row >= '1'+Size {
		return 0, 0, false
	}
	return int(col - 'a'), int(row - '1'), true
}

func (p Placement) Valid() bool {
	_, _, ok := p.Coords()
	return ok
}
