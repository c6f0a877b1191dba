package agent

import (
	"context"
	"errors"
	"fmt"

	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/observe"
	"blockpuzzle/searcher"

	"github.com/rs/zerolog/log"
)

type fullEval struct {
	search *searcher.FullEvaluation
}

// NewFullEval adapts a full-evaluation search to the Strategy contract.
func NewFullEval(search *searcher.FullEvaluation) Strategy {
	return fullEval{search: search}
}

func (a fullEval) MakeMove(board game.Board, batch game.Batch, sink observe.Sink) (game.Move, metrics.SearchMetric) {
	result, err := a.search.Search(context.Background(), board, batch)
	if err != nil {
		if !errors.Is(err, searcher.ErrNoValidPath) {
			log.Warn().Err(err).Msg("full evaluation failed")
		}
		sink.Observe(observe.Event{Kind: observe.Note, Board: board, Batch: batch, Note: err.Error()})
		return game.NoMove, result.Metric
	}

	if !result.Move.IsNone() {
		sink.Observe(observe.Event{
			Kind:  observe.Note,
			Board: board,
			Batch: batch,
			Move:  result.Move,
			Note:  fmt.Sprintf("path %v eval %.2f from %d paths", result.Path.Order, result.Path.Eval, result.Paths),
		})
	}
	return result.Move, result.Metric
}

// ScoreHooks maximise the total score gained over the batch.
func ScoreHooks() searcher.Hooks {
	return searcher.DefaultHooks()
}

// PositionHooks score a path by its total gain plus weight times eval of the
// board it ends on. The position term is also kept in the path stats under
// stat.
func PositionHooks(eval game.Evaluate, weight float64, stat string) searcher.Hooks {
	return searcher.Hooks{
		Step: func(c *searcher.Candidate, path *searcher.GamePath, before, after game.Board) {
			searcher.ScoreDelta(c, path, before, after)
			path.Stats.Add("gain", c.Eval)
		},
		Path: func(path *searcher.GamePath, start game.Board) {
			v := eval(path.Last(start))
			path.Stats.Set(stat, v)
			path.Eval += weight * v
		},
		Select: searcher.MaxEval,
	}
}

// SurvivalHooks add an open-space term for the board a path ends on, so
// paths that score equally prefer to keep room for the next batch.
func SurvivalHooks() searcher.Hooks {
	return PositionHooks(game.EvaluateOpenSpace, 0.5, "open")
}

// CompactHooks prefer paths that leave the fewest ragged edges.
func CompactHooks() searcher.Hooks {
	return PositionHooks(game.EvaluateFragmentation, 1, "fragmentation")
}
