package experiments

import (
	"context"
	"fmt"
	"time"

	"blockpuzzle/engine"
	"blockpuzzle/game"
	"blockpuzzle/searcher"

	"github.com/rs/zerolog/log"
)

type ThroughputRecord struct {
	Goroutines  int
	Batches     int
	Paths       int
	Duration    time.Duration
	PathsPerSec float64
}

// RunThroughput times a full evaluation of the same dealt batches on an empty
// board for each goroutine count.
func RunThroughput(goroutines []int, batches int, seed uint64) ([]ThroughputRecord, error) {
	supplier := engine.NewRefillWhenEmpty(seed, nil)
	deals := make([]game.Batch, batches)
	for i := range deals {
		deals[i] = supplier.Refill(nil)
	}

	log.Info().Msgf("starting throughput experiment over %d batches...", batches)

	records := make([]ThroughputRecord, 0, len(goroutines))
	for _, n := range goroutines {
		search := searcher.NewFullEvaluation(searcher.DefaultHooks(), searcher.WithGoroutines(n), searcher.WithMetrics())
		record := ThroughputRecord{Goroutines: n, Batches: batches}

		for i, batch := range deals {
			result, err := search.Search(context.Background(), game.NewBoard(nil), batch)
			if err != nil {
				return nil, fmt.Errorf("batch %d with %d goroutines: %w", i+1, n, err)
			}
			record.Paths += result.Metric.Paths
			record.Duration += result.Metric.Duration
		}
		if record.Duration > 0 {
			record.PathsPerSec = float64(record.Paths) / record.Duration.Seconds()
		}
		records = append(records, record)

		log.Info().Msgf("goroutines=%d paths=%d duration=%s throughput=%.0f paths/s", n, record.Paths, record.Duration, record.PathsPerSec)
	}

	log.Info().Msg("completed throughput experiment")
	return records, nil
}
