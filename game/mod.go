package game

// Evaluate scores a board position. Higher is better.
type Evaluate func(Board) float64
