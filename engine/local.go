package engine

import (
	"fmt"
	"time"

	"blockpuzzle/agent"
	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/meta"
	"blockpuzzle/observe"

	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

func WithMaxTurns(turns int) Option {
	return func(e *Engine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithMaxForfeits ends the game after this many forfeited rounds in a row.
func WithMaxForfeits(forfeits int) Option {
	return func(e *Engine) {
		if forfeits > 0 {
			e.maxForfeits = forfeits
		}
	}
}

func WithSink(sink observe.Sink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithBoard starts the game from a prepared board instead of an empty one.
func WithBoard(board game.Board) Option {
	return func(e *Engine) {
		e.Board = board
	}
}

func WithRules(rules game.Rules) Option {
	return func(e *Engine) {
		e.Board = game.NewBoard(rules)
	}
}

func WithName(name string) Option {
	return func(e *Engine) {
		e.name = name
	}
}

// Engine owns the authoritative board and batch and asks a strategy for one
// move per round.
type Engine struct {
	Board game.Board
	Batch game.Batch

	strategy    agent.Strategy
	supplier    Supplier
	sink        observe.Sink
	name        string
	maxTurns    int
	maxForfeits int
}

func LocalEngine(strategy agent.Strategy, supplier Supplier, options ...Option) *Engine {
	if strategy == nil {
		panic("engine needs a strategy")
	}
	if supplier == nil {
		panic("engine needs a shape supplier")
	}

	e := &Engine{
		Board:       game.NewBoard(nil),
		Batch:       game.Batch{},
		strategy:    strategy,
		supplier:    supplier,
		sink:        observe.Nop(),
		maxTurns:    meta.MAX_TURNS,
		maxForfeits: meta.MAX_FORFEITS,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the game ends.
func (e *Engine) Run() (metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		Strategy:  e.name,
		StartTime: time.Now(),
	}
	log.Info().Msgf("starting game for strategy %q", e.name)

	var moveMetrics []metrics.MoveMetric
	turn := 1
	consecutive := 0
	for {
		if turn > e.maxTurns {
			gameMetric.EndReason = EndMaxTurns
			break
		}
		e.Batch = e.supplier.Refill(e.Batch)
		if e.Batch.Len() == 0 {
			gameMetric.EndReason = EndSupplyExhausted
			break
		}
		if e.Board.IsGameOver(e.Batch.Shapes()) {
			gameMetric.EndReason = EndGameOver
			break
		}

		e.sink.Observe(observe.Event{Round: turn, Kind: observe.RoundStarted, Board: e.Board, Batch: e.Batch.Clone()})

		move, searchMetric := e.strategy.MakeMove(e.Board.Copy(), e.Batch.Clone(), e.sink)
		moveMetric := metrics.MoveMetric{
			Step:         turn,
			ShapeID:      move.ShapeID,
			Placement:    string(move.Placement),
			SearchMetric: searchMetric,
		}

		// A strategy that finds no move for the batch ends the game.
		if move.IsNone() {
			gameMetric.EndReason = EndNoMove
			log.Info().Int("turn", turn).Msg("strategy found no move")
			break
		}

		gain, lines, err := e.apply(move)
		if err != nil {
			gameMetric.Forfeits++
			consecutive++
			moveMetric.Forfeited = true
			log.Warn().Err(err).Int("turn", turn).Msg("forfeiting round")
			e.sink.Observe(observe.Event{Round: turn, Kind: observe.MoveRejected, Board: e.Board, Batch: e.Batch.Clone(), Move: move, Note: err.Error()})
		} else {
			consecutive = 0
			moveMetric.ScoreGain = gain
			moveMetric.Lines = lines
			log.Debug().Int("turn", turn).Stringer("move", move).Int("gain", gain).Int("lines", lines).Msg("applied move")
			e.sink.Observe(observe.Event{Round: turn, Kind: observe.MoveApplied, Board: e.Board, Batch: e.Batch.Clone(), Move: move})
		}

		moveMetrics = append(moveMetrics, moveMetric)
		turn++

		if consecutive >= e.maxForfeits {
			gameMetric.EndReason = EndForfeits
			break
		}
	}

	gameMetric.Turns = turn - 1
	gameMetric.Score = e.Board.Score()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)

	e.sink.Observe(observe.Event{Round: gameMetric.Turns, Kind: observe.GameOver, Board: e.Board, Batch: e.Batch.Clone(), Note: gameMetric.EndReason})
	log.Info().Msgf("game over after %d turns with score %d (%s)", gameMetric.Turns, gameMetric.Score, gameMetric.EndReason)

	return gameMetric, moveMetrics
}

// apply validates the move against the real batch and board and plays it.
// The board and batch are untouched when it returns an error.
func (e *Engine) apply(move game.Move) (gain, lines int, err error) {
	if err := move.Validate(e.Batch); err != nil {
		return 0, 0, err
	}

	shape := e.Batch[move.ShapeID]
	x, y, _ := move.Placement.Coords()
	next := e.Board.Copy()
	lines, ok := next.PlaceAt(shape, x, y)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s does not fit at %s", game.ErrIllegalMove, shape, move.Placement)
	}

	gain = next.Score() - e.Board.Score()
	e.Board = next
	e.Batch = e.Batch.Without(move.ShapeID)
	return gain, lines, nil
}
