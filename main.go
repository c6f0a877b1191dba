package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"blockpuzzle/experiments"
	"blockpuzzle/experiments/metrics"
	"blockpuzzle/meta"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code. Deferred calls, including stopping the
// profiler, finish before main exits.
func run(args []string) int {
	fs := flag.NewFlagSet("blockpuzzle", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML experiment file; overrides -strategy")
	games := fs.Int("games", meta.GAMES, "Games per strategy")
	seed := fs.Uint64("seed", 1, "Seed of the first game's shape sequence")
	strategies := fs.String("strategy", "greedy,survival", "Comma separated presets: "+strings.Join(experiments.PresetNames(), ", "))
	out := fs.String("out", meta.OUT_DIR, "Directory for run records")
	throughput := fs.String("throughput", "", "Comma separated goroutine counts; times the full evaluation instead of playing games")
	profileMode := fs.String("profile", "", "Write a cpu or mem profile to -out")
	debug := fs.Bool("debug", false, "Log every round")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*out), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*out), profile.Quiet).Stop()
	default:
		log.Error().Msgf("unknown profile mode %q", *profileMode)
		return 2
	}

	if *throughput != "" {
		counts, err := parseCounts(*throughput)
		if err != nil {
			log.Error().Err(err).Msg("invalid -throughput")
			return 2
		}
		if _, err := experiments.RunThroughput(counts, *games, *seed); err != nil {
			log.Error().Err(err).Msg("throughput experiment failed")
			return 1
		}
		return 0
	}

	var cfg experiments.Config
	var err error
	if *configPath != "" {
		cfg, err = experiments.LoadConfig(*configPath)
	} else {
		cfg, err = experiments.DefaultConfig(*games, *seed, strings.Split(*strategies, ",")...)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to load experiment config")
		return 2
	}

	writer, err := metrics.NewWriter(*out)
	if err != nil {
		log.Error().Err(err).Msg("failed to create experiment writer")
		return 1
	}

	if _, err := experiments.Run(cfg, writer); err != nil {
		log.Error().Err(err).Msg("experiment failed")
		return 1
	}
	return 0
}

func parseCounts(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("goroutine count %q must be a positive integer", field)
		}
		counts = append(counts, n)
	}
	return counts, nil
}
