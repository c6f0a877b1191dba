package experiments

import (
	"fmt"

	"blockpuzzle/engine"
	"blockpuzzle/experiments/metrics"
	"blockpuzzle/observe"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Results holds the records of one experiment run.
type Results struct {
	Strategies []metrics.StrategyRecord
	Games      []metrics.GameRecord
	Moves      []metrics.MoveRecord
}

// Run plays cfg.Games games per strategy. Game i uses seed cfg.Seed+i for
// every strategy, so all strategies see the same shape sequence. Records are
// written through writer when it is not nil.
func Run(cfg Config, writer *metrics.Writer) (Results, error) {
	if err := cfg.Validate(); err != nil {
		return Results{}, err
	}
	rules, err := cfg.Rules.ScoreRules()
	if err != nil {
		return Results{}, err
	}

	var results Results
	log.Info().Msgf("starting %s experiment with %d strategies...", cfg.Name, len(cfg.Strategies))

	count := 0
	for si, sc := range cfg.Strategies {
		strategyID := si + 1
		results.Strategies = append(results.Strategies, metrics.StrategyRecord{
			ID:     strategyID,
			Name:   sc.Name,
			Kind:   sc.Kind,
			Detail: sc.String(),
		})
		log.Info().Msgf("starting strategy %d of %d: %s (%s)", strategyID, len(cfg.Strategies), sc.Name, sc)

		total := 0
		for i := 0; i < cfg.Games; i++ {
			seed := cfg.Seed + uint64(i)
			strategy, err := NewStrategy(sc)
			if err != nil {
				return Results{}, err
			}

			options := []engine.Option{
				engine.WithRules(rules),
				engine.WithMaxTurns(cfg.MaxTurns),
				engine.WithMaxForfeits(cfg.MaxForfeits),
				engine.WithName(sc.Name),
			}
			// Round by round events only when debugging.
			if zerolog.GlobalLevel() <= zerolog.DebugLevel {
				sink := observe.NewLogSink(log.With().Str("strategy", sc.Name).Uint64("seed", seed).Logger())
				options = append(options, engine.WithSink(sink))
			}

			e := engine.LocalEngine(strategy, newSupplier(cfg.Refill, seed), options...)
			gameMetric, moveMetrics := e.Run()
			gameMetric.Seed = seed

			count++
			total += gameMetric.Score
			results.Games = append(results.Games, metrics.GameRecord{
				ID:         count,
				Strategy:   strategyID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				results.Moves = append(results.Moves, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed %s game %d of %d with score %d after %d turns", sc.Name, i+1, cfg.Games, gameMetric.Score, gameMetric.Turns)
		}
		log.Info().Msgf("completed strategy %s with mean score %.1f", sc.Name, float64(total)/float64(cfg.Games))
	}

	log.Info().Msgf("completed %s experiment", cfg.Name)

	if writer == nil {
		return results, nil
	}
	if err := store(writer, results); err != nil {
		return results, err
	}
	log.Info().Msgf("stored records in %s", writer.Dir())
	return results, nil
}

func store(writer *metrics.Writer, results Results) error {
	if err := writer.WriteStrategies(results.Strategies); err != nil {
		return fmt.Errorf("failed to store strategies: %w", err)
	}
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	return nil
}

func newSupplier(policy string, seed uint64) engine.Supplier {
	if policy == RefillEachTurn {
		return engine.NewRefillEachTurn(seed, nil)
	}
	return engine.NewRefillWhenEmpty(seed, nil)
}
