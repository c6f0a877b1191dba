package engine

import (
	"testing"

	"blockpuzzle/agent"
	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"
	"blockpuzzle/observe"
	"blockpuzzle/searcher"

	"github.com/stretchr/testify/require"
)

var (
	single = game.MustShape(game.Single, 0)
	square = game.MustShape(game.Square, 0)
)

// scriptedStrategy returns the given moves in order, then declines.
type scriptedStrategy struct {
	moves []game.Move
	calls int
}

func (s *scriptedStrategy) MakeMove(board game.Board, batch game.Batch, sink observe.Sink) (game.Move, metrics.SearchMetric) {
	s.calls++
	if len(s.moves) == 0 {
		return game.NoMove, metrics.SearchMetric{}
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	return m, metrics.SearchMetric{}
}

func TestLocalEngineAppliesMoves(t *testing.T) {
	supplier := &FixedSupplier{Batches: []game.Batch{game.MustBatch(single, square)}}
	strategy := &scriptedStrategy{moves: []game.Move{
		{ShapeID: 2, Placement: "c3"},
		{ShapeID: 1, Placement: "h8"},
	}}
	rec := &observe.Recorder{}

	e := LocalEngine(strategy, supplier, WithSink(rec), WithName("scripted"))
	gameMetric, moveMetrics := e.Run()

	require.Equal(t, EndSupplyExhausted, gameMetric.EndReason)
	require.Equal(t, "scripted", gameMetric.Strategy)
	require.Equal(t, 2, gameMetric.Turns)
	require.Equal(t, 5, gameMetric.Score)
	require.Zero(t, gameMetric.Forfeits)
	require.Len(t, moveMetrics, 2)
	require.Equal(t, 4, moveMetrics[0].ScoreGain)
	require.Equal(t, "h8", moveMetrics[1].Placement)

	require.True(t, e.Board.Occupied(2, 2))
	require.True(t, e.Board.Occupied(3, 3))
	require.True(t, e.Board.Occupied(7, 7))
	require.Equal(t, 59, e.Board.FreeCells())
	require.Equal(t, []observe.Kind{
		observe.RoundStarted, observe.MoveApplied,
		observe.RoundStarted, observe.MoveApplied,
		observe.GameOver,
	}, rec.Kinds())
}

func TestLocalEngineRejectsIllegalMoves(t *testing.T) {
	start := game.MustParseBoard(nil, "##......")
	tests := []struct {
		name string
		move game.Move
	}{
		{name: "unknown shape id", move: game.Move{ShapeID: 7, Placement: "d4"}},
		{name: "malformed placement", move: game.Move{ShapeID: 1, Placement: "z9"}},
		{name: "overlapping placement", move: game.Move{ShapeID: 1, Placement: "a1"}},
		{name: "out of bounds placement", move: game.Move{ShapeID: 1, Placement: "h8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supplier := NewRefillWhenEmpty(1, []*game.Shape{square})
			strategy := &scriptedStrategy{moves: []game.Move{tt.move, tt.move}}

			e := LocalEngine(strategy, supplier, WithBoard(start), WithMaxForfeits(2))
			gameMetric, moveMetrics := e.Run()

			require.Equal(t, EndForfeits, gameMetric.EndReason)
			require.Equal(t, 2, gameMetric.Forfeits)
			require.Equal(t, 2, strategy.calls)
			require.Len(t, moveMetrics, 2)
			require.True(t, moveMetrics[0].Forfeited)
			require.Equal(t, start, e.Board, "Rejected moves must not touch the board")
			require.Equal(t, []int{1, 2, 3}, e.Batch.IDs(), "Rejected moves must not remove shapes")
			require.Equal(t, 0, gameMetric.Score)
		})
	}
}

func TestLocalEngineForfeitKeepsBatch(t *testing.T) {
	supplier := &FixedSupplier{Batches: []game.Batch{
		game.MustBatch(single, single),
		game.MustBatch(square),
	}}
	strategy := &scriptedStrategy{moves: []game.Move{
		{ShapeID: 7, Placement: "a1"},
		{ShapeID: 1, Placement: "a1"},
		{ShapeID: 2, Placement: "b1"},
	}}
	rec := &observe.Recorder{}

	e := LocalEngine(strategy, supplier, WithSink(rec), WithMaxTurns(3))
	gameMetric, moveMetrics := e.Run()

	require.Equal(t, EndMaxTurns, gameMetric.EndReason)
	require.Equal(t, 1, gameMetric.Forfeits)
	require.Len(t, moveMetrics, 3)
	require.True(t, moveMetrics[0].Forfeited)
	require.False(t, moveMetrics[1].Forfeited)
	require.Equal(t, 2, gameMetric.Score, "Both singles of the first batch are played after the forfeit")
	require.Equal(t, 1, supplier.next, "The second batch should not be dealt")

	events := rec.Events()
	require.Equal(t, observe.MoveRejected, events[1].Kind)
	require.Equal(t, observe.RoundStarted, events[2].Kind)
	require.Equal(t, []int{1, 2}, events[2].Batch.IDs(), "The round after a forfeit offers the same shapes")
}

func TestLocalEngineNoMove(t *testing.T) {
	checkerboard := game.MustParseBoard(nil,
		"#.#.#.#.",
		".#.#.#.#",
		"#.#.#.#.",
		".#.#.#.#",
		"#.#.#.#.",
		".#.#.#.#",
		"#.#.#.#.",
		".#.#.#.#",
	)

	t.Run("full evaluation with no complete path", func(t *testing.T) {
		// The single fits but the square never does, so no ordering places
		// the whole batch.
		supplier := &FixedSupplier{Batches: []game.Batch{
			game.MustBatch(single, square),
			game.MustBatch(single, single),
		}}
		strategy := agent.NewFullEval(searcher.NewFullEvaluation(agent.ScoreHooks()))
		rec := &observe.Recorder{}

		e := LocalEngine(strategy, supplier, WithBoard(checkerboard), WithSink(rec))
		gameMetric, moveMetrics := e.Run()

		require.Equal(t, EndNoMove, gameMetric.EndReason)
		require.Zero(t, gameMetric.Turns)
		require.Zero(t, gameMetric.Forfeits)
		require.Zero(t, gameMetric.Score)
		require.Empty(t, moveMetrics)
		require.Equal(t, checkerboard, e.Board)
		require.Equal(t, game.MustBatch(single, square), e.Batch, "Unplaced shapes stay in the batch")
		require.Equal(t, 1, supplier.next, "No fresh batch is dealt after the game ends")
		require.Equal(t, []observe.Kind{observe.RoundStarted, observe.Note, observe.GameOver}, rec.Kinds())
	})

	t.Run("strategy declines after playing", func(t *testing.T) {
		supplier := &FixedSupplier{Batches: []game.Batch{game.MustBatch(single, single)}}
		strategy := &scriptedStrategy{moves: []game.Move{{ShapeID: 2, Placement: "a1"}}}

		e := LocalEngine(strategy, supplier)
		gameMetric, moveMetrics := e.Run()

		require.Equal(t, EndNoMove, gameMetric.EndReason)
		require.Equal(t, 1, gameMetric.Turns)
		require.Len(t, moveMetrics, 1)
		require.Equal(t, 1, gameMetric.Score)
		require.Equal(t, []int{1}, e.Batch.IDs())
	})
}

func TestLocalEngineGameOver(t *testing.T) {
	checkerboard := game.MustParseBoard(nil,
		"#.#.#.#.",
		".#.#.#.#",
		"#.#.#.#.",
		".#.#.#.#",
		"#.#.#.#.",
		".#.#.#.#",
		"#.#.#.#.",
		".#.#.#.#",
	)
	strategy := &scriptedStrategy{}

	gameMetric, moveMetrics := LocalEngine(strategy, NewRefillWhenEmpty(3, []*game.Shape{square}), WithBoard(checkerboard)).Run()

	require.Equal(t, EndGameOver, gameMetric.EndReason)
	require.Zero(t, gameMetric.Turns)
	require.Empty(t, moveMetrics)
	require.Zero(t, strategy.calls, "Strategy should not be asked when nothing fits")
}

func TestLocalEngineMaxTurns(t *testing.T) {
	e := LocalEngine(agent.NewGreedy(agent.ScoreGain, agent.Higher), NewRefillEachTurn(9, []*game.Shape{single}), WithMaxTurns(5))

	gameMetric, moveMetrics := e.Run()

	require.Equal(t, EndMaxTurns, gameMetric.EndReason)
	require.Equal(t, 5, gameMetric.Turns)
	require.Len(t, moveMetrics, 5)
	require.Equal(t, 2, e.Batch.Len(), "The turn limit is checked before the next refill")
}

func TestLocalEngineFullGame(t *testing.T) {
	play := func(strategy agent.Strategy, turns int) (metrics.GameMetric, []metrics.MoveMetric) {
		return LocalEngine(strategy, NewRefillWhenEmpty(2024, nil), WithMaxTurns(turns)).Run()
	}
	check := func(t *testing.T, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric) {
		require.Contains(t, []string{EndGameOver, EndMaxTurns, EndForfeits, EndNoMove}, gameMetric.EndReason)
		require.Len(t, moveMetrics, gameMetric.Turns)
		total := 0
		for _, m := range moveMetrics {
			if !m.Forfeited {
				require.GreaterOrEqual(t, m.ScoreGain, 1, "Every placement scores at least its cells")
			}
			total += m.ScoreGain
		}
		require.Equal(t, gameMetric.Score, total)
	}

	t.Run("greedy", func(t *testing.T) {
		newStrategy := func() agent.Strategy { return agent.NewGreedy(agent.OpenSpaceGain, agent.Higher) }

		gameMetric, moveMetrics := play(newStrategy(), 60)
		check(t, gameMetric, moveMetrics)
		require.Zero(t, gameMetric.Forfeits, "Greedy always plays a fitting shape")

		again, _ := play(newStrategy(), 60)
		require.Equal(t, gameMetric.Score, again.Score, "Same seed and strategy should replay the same game")
		require.Equal(t, gameMetric.Turns, again.Turns)
	})

	t.Run("full evaluation", func(t *testing.T) {
		if testing.Short() {
			t.Skip("searches every ordering of several batches")
		}
		newStrategy := func() agent.Strategy {
			return agent.NewFullEval(searcher.NewFullEvaluation(agent.SurvivalHooks(), searcher.WithGoroutines(3)))
		}

		gameMetric, moveMetrics := play(newStrategy(), 6)
		check(t, gameMetric, moveMetrics)

		again, _ := play(newStrategy(), 6)
		require.Equal(t, gameMetric.Score, again.Score, "Same seed and strategy should replay the same game")
	})
}

func TestSuppliers(t *testing.T) {
	t.Run("refill when empty keeps a partial batch", func(t *testing.T) {
		s := NewRefillWhenEmpty(5, nil)
		full := s.Refill(nil)
		require.Equal(t, []int{1, 2, 3}, full.IDs())

		partial := full.Without(2)
		require.Equal(t, partial, s.Refill(partial))
	})

	t.Run("refill each turn tops up missing ids", func(t *testing.T) {
		s := NewRefillEachTurn(5, []*game.Shape{square})
		got := s.Refill(game.Batch{2: single})
		require.Equal(t, []int{1, 2, 3}, got.IDs())
		require.Same(t, single, got[2])
		require.Same(t, square, got[1])
	})

	t.Run("same seed deals the same shapes", func(t *testing.T) {
		a, b := NewRefillWhenEmpty(11, nil), NewRefillWhenEmpty(11, nil)
		for i := 0; i < 10; i++ {
			require.Equal(t, a.Refill(nil), b.Refill(nil))
		}
	})

	t.Run("fixed supplier ends with an empty batch", func(t *testing.T) {
		s := &FixedSupplier{Batches: []game.Batch{game.MustBatch(single)}}
		require.Equal(t, 1, s.Refill(nil).Len())
		require.Zero(t, s.Refill(nil).Len())
	})
}
