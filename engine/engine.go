package engine

import (
	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
)

// Why a game ended.
const (
	EndGameOver        = "game over"
	EndMaxTurns        = "max turns"
	EndForfeits        = "forfeits"
	EndSupplyExhausted = "supply exhausted"
	EndNoMove          = "no move"
)

type Runner interface {
	// Run plays a game until no shape fits, the strategy finds no move, the
	// turn limit is hit, or the strategy forfeits too many rounds in a row.
	Run() (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}

// Supplier decides which shapes are on offer each round. It is handed the
// shapes left over from the previous round and returns the batch to play.
type Supplier interface {
	Refill(batch game.Batch) game.Batch
}
