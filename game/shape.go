package game

import (
	"fmt"
	"strings"
)

// Variant identifies a physical piece, independent of its orientation.
type Variant int

const (
	Single    Variant = iota // 1x1
	Domino                   // 1x2 straight
	Tromino                  // 1x3 straight
	Square                   // 2x2
	BigSquare                // 3x3
	Corner                   // 2x2 L
	BigCorner                // 3x3 L
	Tee                      // 3x2 T
	numVariants
)

// Orientation counts quarter turns clockwise from the base pattern.
type Orientation int

const maxShapeSide = 3

// Base patterns, top row first. '#' is occupied, '.' is empty.
var patterns = [numVariants]string{
	Single:    "#",
	Domino:    "##",
	Tromino:   "###",
	Square:    "##/##",
	BigSquare: "###/###/###",
	Corner:    "#./##",
	BigCorner: "#../#../###",
	Tee:       "###/.#.",
}

var variantNames = [numVariants]string{
	Single:    "single",
	Domino:    "domino",
	Tromino:   "tromino",
	Square:    "square",
	BigSquare: "big-square",
	Corner:    "corner",
	BigCorner: "big-corner",
	Tee:       "tee",
}

func (v Variant) String() string {
	if v < 0 || v >= numVariants {
		return fmt.Sprintf("variant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseVariant maps a variant name back to its Variant.
func ParseVariant(name string) (Variant, error) {
	for v, n := range variantNames {
		if n == name {
			return Variant(v), nil
		}
	}
	return 0, fmt.Errorf("unknown shape variant %q", name)
}

// Shape is one variant in one orientation. Shapes come from the catalog and
// are shared read-only.
type Shape struct {
	variant     Variant
	orientation Orientation
	rows, cols  int
	cells       int
	mask        uint64 // footprint anchored at (0,0), bit r*Size+c
}

func (s *Shape) Variant() Variant         { return s.variant }
func (s *Shape) Orientation() Orientation { return s.orientation }
func (s *Shape) Rows() int                { return s.rows }
func (s *Shape) Cols() int                { return s.cols }
func (s *Shape) Cells() int               { return s.cells }

// Footprint returns a fresh rows x cols occupancy matrix.
func (s *Shape) Footprint() [][]bool {
	fp := make([][]bool, s.rows)
	for r := range fp {
		fp[r] = make([]bool, s.cols)
		for c := range fp[r] {
			fp[r][c] = s.mask&(1<<(r*Size+c)) != 0
		}
	}
	return fp
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s/%d", s.variant, s.orientation)
}

var catalog = mustBuildCatalog()

// Catalog returns every shape, ordered by variant then orientation.
func Catalog() []*Shape {
	var all []*Shape
	for _, orientations := range catalog {
		all = append(all, orientations...)
	}
	return all
}

// Orientations returns the distinct orientations of the variant.
func (v Variant) Orientations() []*Shape {
	if v < 0 || v >= numVariants {
		return nil
	}
	return catalog[v]
}

func ShapeOf(v Variant, o Orientation) (*Shape, bool) {
	if v < 0 || v >= numVariants || o < 0 || int(o) >= len(catalog[v]) {
		return nil, false
	}
	return catalog[v][o], true
}

func MustShape(v Variant, o Orientation) *Shape {
	s, ok := ShapeOf(v, o)
	if !ok {
		panic(fmt.Sprintf("no shape %s in orientation %d", v, o))
	}
	return s
}

func mustBuildCatalog() [numVariants][]*Shape {
	var table [numVariants][]*Shape
	for v := Variant(0); v < numVariants; v++ {
		grid, err := parsePattern(patterns[v])
		if err != nil {
			panic(fmt.Sprintf("shape %s: %v", v, err))
		}
		seen := map[string]bool{}
		for turn := 0; turn < 4; turn++ {
			key := gridKey(grid)
			if !seen[key] {
				seen[key] = true
				shape := newShape(v, Orientation(len(table[v])), grid)
				table[v] = append(table[v], shape)
			}
			grid = rotate(grid)
		}
	}
	return table
}

func parsePattern(pattern string) ([][]bool, error) {
	lines := strings.Split(pattern, "/")
	if len(lines) == 0 || len(lines) > maxShapeSide {
		return nil, fmt.Errorf("pattern %q has %d rows", pattern, len(lines))
	}
	width := len(lines[0])
	grid := make([][]bool, len(lines))
	filled := 0
	for r, line := range lines {
		if len(line) != width || width == 0 || width > maxShapeSide {
			return nil, fmt.Errorf("pattern %q is not a rectangle of side <= %d", pattern, maxShapeSide)
		}
		grid[r] = make([]bool, width)
		for c, ch := range line {
			switch ch {
			case '#':
				grid[r][c] = true
				filled++
			case '.':
			default:
				return nil, fmt.Errorf("pattern %q has invalid cell %q", pattern, ch)
			}
		}
	}
	if filled == 0 {
		return nil, fmt.Errorf("pattern %q is empty", pattern)
	}
	return grid, nil
}

// rotate turns the grid a quarter clockwise.
func rotate(grid [][]bool) [][]bool {
	rows, cols := len(grid), len(grid[0])
	out := make([][]bool, cols)
	for r := range out {
		out[r] = make([]bool, rows)
		for c := range out[r] {
			out[r][c] = grid[rows-1-c][r]
		}
	}
	return out
}

func gridKey(grid [][]bool) string {
	var sb strings.Builder
	for r, row := range grid {
		if r > 0 {
			sb.WriteByte('/')
		}
		for _, cell := range row {
			if cell {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

func newShape(v Variant, o Orientation, grid [][]bool) *Shape {
	s := &Shape{variant: v, orientation: o, rows: len(grid), cols: len(grid[0])}
	for r, row := range grid {
		for c, cell := range row {
			if cell {
				s.mask |= 1 << (r*Size + c)
				s.cells++
			}
		}
	}
	return s
}
