package agent

import (
	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/observe"
)

type Strategy interface {
	// MakeMove picks a shape id from batch and a placement for it on board,
	// or returns game.NoMove to decline. The board is the driver's copy and
	// may be copied freely; it must not be retained.
	MakeMove(board game.Board, batch game.Batch, sink observe.Sink) (game.Move, metrics.SearchMetric)
}
