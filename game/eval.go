package game

// EvaluateScore rates a board by its accumulated score.
func EvaluateScore(b Board) float64 {
	return float64(b.Score())
}

// EvaluateOpenSpace rates a board by how much room is left for the next
// shapes: free cells plus the largest empty rectangle, minus ragged edges.
func EvaluateOpenSpace(b Board) float64 {
	free := float64(b.FreeCells())
	rect := float64(LargestEmptyRectangle(b))
	frag := float64(Fragmentation(b))
	regions := float64(EmptyRegions(b))

	return free + 2*rect - frag - 4*regions
}

// EvaluateFragmentation rates a board by its free/occupied boundary length,
// negated so that higher is better.
func EvaluateFragmentation(b Board) float64 {
	return -float64(Fragmentation(b))
}
