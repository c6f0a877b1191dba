package agent

import (
	"fmt"
	"time"

	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/observe"
)

// GainFn rates one placement from the boards before and after it.
type GainFn func(before, after game.Board) float64

// BetterFn reports whether gain a should replace the best gain b so far.
type BetterFn func(a, b float64) bool

func Higher(a, b float64) bool { return a > b }
func Lower(a, b float64) bool  { return a < b }

func ScoreGain(before, after game.Board) float64 {
	return game.EvaluateScore(after) - game.EvaluateScore(before)
}

// OpenSpaceGain favours placements that score and leave room for more shapes.
func OpenSpaceGain(before, after game.Board) float64 {
	return ScoreGain(before, after) + game.EvaluateOpenSpace(after)
}

// FragmentationGain is the boundary length left behind; pair it with Lower.
func FragmentationGain(_, after game.Board) float64 {
	return float64(game.Fragmentation(after))
}

type greedy struct {
	gain   GainFn
	better BetterFn
}

// NewGreedy returns a strategy that tries every shape at every anchor on the
// current board and keeps the placement whose gain compares best. Ties keep
// the first placement found.
func NewGreedy(gain GainFn, better BetterFn) Strategy {
	if gain == nil {
		gain = ScoreGain
	}
	if better == nil {
		better = Higher
	}
	return greedy{gain: gain, better: better}
}

func (g greedy) MakeMove(board game.Board, batch game.Batch, sink observe.Sink) (game.Move, metrics.SearchMetric) {
	start := time.Now()
	metric := metrics.SearchMetric{Goroutines: 1}

	best := game.NoMove
	var bestGain float64
	for _, id := range batch.IDs() {
		shape := batch[id]
		for x := 0; x < game.Size; x++ {
			for y := 0; y < game.Size; y++ {
				metric.Attempts++
				after := board.Copy()
				if !after.TryPlaceAt(shape, x, y) {
					continue
				}
				metric.Placements++
				gain := g.gain(board, after)
				if best.IsNone() || g.better(gain, bestGain) {
					best = game.Move{ShapeID: id, Placement: game.PlacementAt(x, y)}
					bestGain = gain
				}
			}
		}
	}

	metric.Paths = metric.Placements
	metric.Duration = time.Since(start)
	if !best.IsNone() {
		sink.Observe(observe.Event{
			Kind:  observe.Note,
			Board: board,
			Batch: batch,
			Move:  best,
			Note:  fmt.Sprintf("greedy gain %.2f over %d placements", bestGain, metric.Placements),
		})
	}
	return best, metric
}
