package agent

import (
	"time"

	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/observe"

	"golang.org/x/exp/rand"
)

type random struct {
	rng *rand.Rand
}

// NewRandom returns a baseline strategy that plays a uniformly random legal
// move.
func NewRandom(seed uint64) Strategy {
	return &random{rng: rand.New(rand.NewSource(seed))}
}

func (r *random) MakeMove(board game.Board, batch game.Batch, _ observe.Sink) (game.Move, metrics.SearchMetric) {
	start := time.Now()
	metric := metrics.SearchMetric{Goroutines: 1}

	var legal []game.Move
	for _, id := range batch.IDs() {
		for x := 0; x < game.Size; x++ {
			for y := 0; y < game.Size; y++ {
				metric.Attempts++
				if board.Fits(batch[id], x, y) {
					legal = append(legal, game.Move{ShapeID: id, Placement: game.PlacementAt(x, y)})
				}
			}
		}
	}
	metric.Placements = len(legal)
	metric.Duration = time.Since(start)

	if len(legal) == 0 {
		return game.NoMove, metric
	}
	return legal[r.rng.Intn(len(legal))], metric
}
