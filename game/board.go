package game

import (
	"fmt"
	"math/bits"
	"strings"
)

// Size is the side length of the board.
const Size = 8

const (
	rowMask uint64 = 0xFF
	colMask uint64 = 0x0101010101010101
)

// Board is the 8x8 occupancy grid and the score accumulated on it. Cell (x, y)
// is bit y*Size+x. Board is a value: assigning it copies the whole state, so
// speculative placements are made on a copy and the original never changes.
type Board struct {
	cells uint64
	score int
	rules Rules // shared, read-only
}

// NewBoard returns an empty board scoring with the given rules, or with
// StandardRules when rules is nil.
func NewBoard(rules Rules) Board {
	if rules == nil {
		rules = StandardRules()
	}
	return Board{rules: rules}
}

// ParseBoard builds a board from up to Size rows of '#' (occupied) and '.'
// (free), top row first. Missing rows are free.
func ParseBoard(rules Rules, rows ...string) (Board, error) {
	b := NewBoard(rules)
	if len(rows) > Size {
		return Board{}, fmt.Errorf("board has %d rows, want at most %d", len(rows), Size)
	}
	for y, row := range rows {
		if len(row) != Size {
			return Board{}, fmt.Errorf("row %d has %d cells, want %d", y, len(row), Size)
		}
		for x, ch := range row {
			switch ch {
			case '#':
				b.cells |= bit(x, y)
			case '.':
			default:
				return Board{}, fmt.Errorf("row %d has invalid cell %q", y, ch)
			}
		}
	}
	return b, nil
}

func MustParseBoard(rules Rules, rows ...string) Board {
	b, err := ParseBoard(rules, rows...)
	if err != nil {
		panic(err)
	}
	return b
}

func bit(x, y int) uint64 {
	return 1 << (y*Size + x)
}

// Copy returns an independent duplicate of the board.
func (b Board) Copy() Board {
	return b
}

func (b Board) Score() int {
	return b.score
}

func (b Board) Rules() Rules {
	return b.rules
}

func (b Board) Occupied(x, y int) bool {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return false
	}
	return b.cells&bit(x, y) != 0
}

func (b Board) FreeCells() int {
	return Size*Size - bits.OnesCount64(b.cells)
}

func (b Board) Empty() bool {
	return b.cells == 0
}

// Fits reports whether shape anchored at (x, y) lies inside the grid and
// covers only free cells.
func (b Board) Fits(shape *Shape, x, y int) bool {
	_, ok := b.footprint(shape, x, y)
	return ok
}

func (b Board) footprint(shape *Shape, x, y int) (uint64, bool) {
	if shape == nil || x < 0 || y < 0 || x+shape.cols > Size || y+shape.rows > Size {
		return 0, false
	}
	m := shape.mask << (y*Size + x)
	if b.cells&m != 0 {
		return 0, false
	}
	return m, true
}

// TryPlace places shape with its top-left cell at placement. It returns false
// and leaves the board unchanged when the placement is malformed, out of
// bounds, or overlaps an occupied cell.
func (b *Board) TryPlace(shape *Shape, p Placement) bool {
	x, y, ok := p.Coords()
	if !ok {
		return false
	}
	return b.TryPlaceAt(shape, x, y)
}

func (b *Board) TryPlaceAt(shape *Shape, x, y int) bool {
	_, ok := b.PlaceAt(shape, x, y)
	return ok
}

// PlaceAt places shape at (x, y) and returns the number of lines cleared.
// Full rows and columns are found on the state right after the cells are
// marked and are all cleared together.
func (b *Board) PlaceAt(shape *Shape, x, y int) (lines int, ok bool) {
	m, ok := b.footprint(shape, x, y)
	if !ok {
		return 0, false
	}
	cells := b.cells | m

	var clear uint64
	for i := 0; i < Size; i++ {
		row := rowMask << (i * Size)
		if cells&row == row {
			clear |= row
			lines++
		}
		col := colMask << i
		if cells&col == col {
			clear |= col
			lines++
		}
	}

	b.cells = cells &^ clear
	if b.rules == nil {
		b.rules = StandardRules()
	}
	if inc := b.rules.Increment(shape.cells, lines); inc > 0 {
		b.score += inc
	}
	return lines, true
}

// IsGameOver reports whether none of the shapes fits anywhere on the board.
// A Shape is a single fixed orientation and is checked exactly as dealt,
// since players cannot rotate it.
func (b Board) IsGameOver(shapes []*Shape) bool {
	for _, s := range shapes {
		if b.CanPlace(s) {
			return false
		}
	}
	return true
}

// IsGameOverAnyOrientation is IsGameOver for rules that let players rotate:
// every orientation of each shape's variant is tried.
func (b Board) IsGameOverAnyOrientation(shapes []*Shape) bool {
	for _, s := range shapes {
		if s == nil {
			continue
		}
		if !b.IsGameOver(s.Variant().Orientations()) {
			return false
		}
	}
	return true
}

// CanPlace reports whether shape fits at any anchor.
func (b Board) CanPlace(shape *Shape) bool {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b.Fits(shape, x, y) {
				return true
			}
		}
	}
	return false
}

func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.Occupied(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
