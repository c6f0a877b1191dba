package game

// LargestEmptyRectangle returns the area of the largest axis-aligned rectangle
// of free cells.
func LargestEmptyRectangle(b Board) int {
	var heights [Size]int
	best := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.Occupied(x, y) {
				heights[x] = 0
			} else {
				heights[x]++
			}
		}
		if area := largestInHistogram(heights); area > best {
			best = area
		}
	}
	return best
}

func largestInHistogram(heights [Size]int) int {
	best := 0
	stack := make([]int, 0, Size+1)
	for i := 0; i <= Size; i++ {
		h := 0
		if i < Size {
			h = heights[i]
		}
		for len(stack) > 0 && heights[stack[len(stack)-1]] >= h {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			width := i
			if len(stack) > 0 {
				width = i - stack[len(stack)-1] - 1
			}
			if area := heights[top] * width; area > best {
				best = area
			}
		}
		stack = append(stack, i)
	}
	return best
}

// Fragmentation counts orthogonal neighbour pairs where exactly one cell is
// free. Lower values mean fewer ragged edges.
func Fragmentation(b Board) int {
	count := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			here := b.Occupied(x, y)
			if x+1 < Size && here != b.Occupied(x+1, y) {
				count++
			}
			if y+1 < Size && here != b.Occupied(x, y+1) {
				count++
			}
		}
	}
	return count
}

// EmptyRegions counts the 4-connected regions of free cells.
func EmptyRegions(b Board) int {
	var seen uint64
	regions := 0
	queue := make([]int, 0, Size*Size)
	for start := 0; start < Size*Size; start++ {
		if b.cells&(1<<start) != 0 || seen&(1<<start) != 0 {
			continue
		}
		regions++
		seen |= 1 << start
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			x, y := i%Size, i/Size
			for _, n := range [4][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}} {
				nx, ny := n[0], n[1]
				if nx < 0 || nx >= Size || ny < 0 || ny >= Size {
					continue
				}
				j := ny*Size + nx
				if b.cells&(1<<j) != 0 || seen&(1<<j) != 0 {
					continue
				}
				seen |= 1 << j
				queue = append(queue, j)
			}
		}
	}
	return regions
}
