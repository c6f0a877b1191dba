package experiments

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"blockpuzzle/experiments/metrics"
	"blockpuzzle/game"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
name: sample
games: 2
seed: 7
max_turns: 15
refill: each_turn
rules:
  per_cell: 1
  per_line: 5
  combo: multiplicative
strategies:
  - name: greedy-open
    kind: greedy
    gain: open
  - kind: full
    hooks: survival
    goroutines: 2
    duration: 25ms
    partial: true
  - kind: random
    seed: 3
`

func TestParseConfig(t *testing.T) {
	t.Run("sample file", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(sampleConfig))

		require.NoError(t, err)
		require.Equal(t, "sample", cfg.Name)
		require.Equal(t, 2, cfg.Games)
		require.Equal(t, uint64(7), cfg.Seed)
		require.Equal(t, 15, cfg.MaxTurns)
		require.Equal(t, 3, cfg.MaxForfeits, "Unset limits take the defaults")
		require.Equal(t, RefillEachTurn, cfg.Refill)
		require.Len(t, cfg.Strategies, 3)
		require.Equal(t, "greedy-open", cfg.Strategies[0].Name)
		require.Equal(t, "full-2", cfg.Strategies[1].Name)
		require.Equal(t, 25*time.Millisecond, cfg.Strategies[1].Duration)
		require.True(t, cfg.Strategies[1].Partial)
		require.Equal(t, uint64(3), cfg.Strategies[2].Seed)

		rules, err := cfg.Rules.ScoreRules()
		require.NoError(t, err)
		require.Equal(t, &game.ScoreRules{PerCell: 1, PerLine: 5, Combo: game.Multiplicative}, rules)
	})

	t.Run("load from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "experiment.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		require.Equal(t, "sample", cfg.Name)
	})

	t.Run("missing rules are the standard rules", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("strategies:\n  - kind: greedy\n"))

		require.NoError(t, err)
		rules, err := cfg.Rules.ScoreRules()
		require.NoError(t, err)
		require.Equal(t, game.StandardRules(), rules)
		require.Equal(t, RefillWhenEmpty, cfg.Refill)
	})

	invalid := map[string]string{
		"malformed yaml":      "strategies: [",
		"no strategies":       "games: 3\n",
		"unknown kind":        "strategies:\n  - kind: minimax\n",
		"unknown gain":        "strategies:\n  - kind: greedy\n    gain: luck\n",
		"unknown hooks":       "strategies:\n  - kind: full\n    hooks: luck\n",
		"unknown refill":      "refill: never\nstrategies:\n  - kind: greedy\n",
		"unknown combo":       "rules:\n  per_line: 10\n  combo: exponential\nstrategies:\n  - kind: greedy\n",
		"negative line score": "rules:\n  per_line: -10\nstrategies:\n  - kind: greedy\n",
	}
	for name, data := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))

			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg, err := DefaultConfig(1, 1, name)

			require.NoError(t, err)
			require.Equal(t, name, cfg.Strategies[0].Name)
			strategy, err := NewStrategy(cfg.Strategies[0])
			require.NoError(t, err)
			require.NotNil(t, strategy)
		})
	}

	t.Run("unknown preset", func(t *testing.T) {
		_, err := DefaultConfig(1, 1, "oracle")

		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun(t *testing.T) {
	cfg, err := DefaultConfig(2, 7, "greedy", "random")
	require.NoError(t, err)
	cfg.MaxTurns = 15

	writer, err := metrics.NewWriter(t.TempDir())
	require.NoError(t, err)

	results, err := Run(cfg, writer)

	require.NoError(t, err)
	require.Len(t, results.Strategies, 2)
	require.Len(t, results.Games, 4)

	turns := 0
	for i, g := range results.Games {
		require.Equal(t, i+1, g.ID)
		require.Equal(t, i/2+1, g.Strategy)
		require.Equal(t, uint64(7+i%2), g.Seed, "Every strategy plays the same seeds")
		require.LessOrEqual(t, g.Turns, 15)
		require.NotEmpty(t, g.EndReason)
		turns += g.Turns
	}
	require.Len(t, results.Moves, turns)

	strategies := readCSV(t, filepath.Join(writer.Dir(), "strategies.csv"))
	require.Len(t, strategies, 3)
	require.Equal(t, []string{"id", "name", "kind", "detail"}, strategies[0])
	require.Equal(t, "greedy", strategies[1][1])

	games := readCSV(t, filepath.Join(writer.Dir(), "game_records.csv"))
	require.Len(t, games, 5)

	moves := readCSV(t, filepath.Join(writer.Dir(), "move_records.csv"))
	require.Len(t, moves, turns+1)

	t.Run("replays with the same seed", func(t *testing.T) {
		again, err := Run(cfg, nil)

		require.NoError(t, err)
		for i := range results.Games {
			require.Equal(t, results.Games[i].Score, again.Games[i].Score)
			require.Equal(t, results.Games[i].Turns, again.Games[i].Turns)
		}
	})
}

func TestRunThroughput(t *testing.T) {
	if testing.Short() {
		t.Skip("runs full evaluations of dealt batches")
	}

	records, err := RunThroughput([]int{1, 2}, 1, 5)

	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 1, records[0].Goroutines)
	require.Equal(t, 2, records[1].Goroutines)
	require.Positive(t, records[0].Paths)
	require.Equal(t, records[0].Paths, records[1].Paths, "Goroutines split the work without changing it")
	require.Positive(t, records[1].PathsPerSec)
}
