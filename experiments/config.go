package experiments

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"blockpuzzle/agent"
	"blockpuzzle/game"
	"blockpuzzle/meta"
	"blockpuzzle/searcher"
	"blockpuzzle/utils"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid experiment config")

// Strategy kinds.
const (
	KindGreedy = "greedy"
	KindFull   = "full"
	KindRandom = "random"
)

var kinds = []string{KindGreedy, KindFull, KindRandom}

// Refill policies.
const (
	RefillWhenEmpty = "when_empty"
	RefillEachTurn  = "each_turn"
)

type Config struct {
	Name        string           `yaml:"name"`
	Games       int              `yaml:"games"`
	Seed        uint64           `yaml:"seed"`
	MaxTurns    int              `yaml:"max_turns"`
	MaxForfeits int              `yaml:"max_forfeits"`
	Refill      string           `yaml:"refill"`
	Rules       RulesConfig      `yaml:"rules"`
	Strategies  []StrategyConfig `yaml:"strategies"`
}

type RulesConfig struct {
	PerCell      int    `yaml:"per_cell"`
	PerPlacement int    `yaml:"per_placement"`
	PerLine      int    `yaml:"per_line"`
	Combo        string `yaml:"combo"`
}

type StrategyConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// greedy
	Gain  string `yaml:"gain"`  // score, open, fragmentation
	Lower bool   `yaml:"lower"` // prefer the smallest gain

	// full
	Hooks      string        `yaml:"hooks"` // score, survival, compact
	Goroutines int           `yaml:"goroutines"`
	Duration   time.Duration `yaml:"duration"`
	Partial    bool          `yaml:"partial"`

	// random
	Seed uint64 `yaml:"seed"`
}

func (sc StrategyConfig) String() string {
	switch sc.Kind {
	case KindGreedy:
		return fmt.Sprintf("gain=%s lower=%t", sc.Gain, sc.Lower)
	case KindFull:
		return fmt.Sprintf("hooks=%s goroutines=%d duration=%s partial=%t", sc.Hooks, sc.Goroutines, sc.Duration, sc.Partial)
	case KindRandom:
		return fmt.Sprintf("seed=%d", sc.Seed)
	}
	return sc.Kind
}

// Presets are the strategies selectable by name from the command line.
var Presets = map[string]StrategyConfig{
	"greedy":      {Name: "greedy", Kind: KindGreedy, Gain: "score"},
	"greedy-open": {Name: "greedy-open", Kind: KindGreedy, Gain: "open"},
	"full":        {Name: "full", Kind: KindFull, Hooks: "score", Goroutines: meta.GO_ROUTINES},
	"survival":    {Name: "survival", Kind: KindFull, Hooks: "survival", Goroutines: meta.GO_ROUTINES},
	"compact":     {Name: "compact", Kind: KindFull, Hooks: "compact", Goroutines: meta.GO_ROUTINES},
	"random":      {Name: "random", Kind: KindRandom, Seed: 1},
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig plays the named presets with the default limits.
func DefaultConfig(games int, seed uint64, presets ...string) (Config, error) {
	cfg := Config{
		Name:  "presets",
		Games: games,
		Seed:  seed,
	}
	for _, name := range presets {
		sc, ok := Presets[name]
		if !ok {
			return Config{}, fmt.Errorf("%w: unknown strategy preset %q", ErrInvalidConfig, name)
		}
		cfg.Strategies = append(cfg.Strategies, sc)
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads a YAML experiment file and fills in defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config and replaces zero values with defaults.
func (c *Config) Validate() error {
	if c.Games <= 0 {
		c.Games = meta.GAMES
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = meta.MAX_TURNS
	}
	if c.MaxForfeits <= 0 {
		c.MaxForfeits = meta.MAX_FORFEITS
	}
	if c.Refill == "" {
		c.Refill = RefillWhenEmpty
	}
	if c.Refill != RefillWhenEmpty && c.Refill != RefillEachTurn {
		return fmt.Errorf("%w: unknown refill policy %q", ErrInvalidConfig, c.Refill)
	}
	if _, err := c.Rules.ScoreRules(); err != nil {
		return err
	}
	if len(c.Strategies) == 0 {
		return fmt.Errorf("%w: no strategies", ErrInvalidConfig)
	}
	for i := range c.Strategies {
		sc := &c.Strategies[i]
		if utils.FindIndex(kinds, sc.Kind) == -1 {
			return fmt.Errorf("%w: strategy %d has unknown kind %q", ErrInvalidConfig, i+1, sc.Kind)
		}
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("%s-%d", sc.Kind, i+1)
		}
		if _, err := NewStrategy(*sc); err != nil {
			return err
		}
	}
	return nil
}

// ScoreRules builds the score policy. An all-zero section means the standard
// rules.
func (rc RulesConfig) ScoreRules() (*game.ScoreRules, error) {
	if rc == (RulesConfig{}) {
		return game.StandardRules(), nil
	}
	combo, err := game.ParseCombo(rc.Combo)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	rules := &game.ScoreRules{
		PerCell:      rc.PerCell,
		PerPlacement: rc.PerPlacement,
		PerLine:      rc.PerLine,
		Combo:        combo,
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return rules, nil
}

// NewStrategy builds a fresh strategy from its config. Strategies carry
// state such as a random generator, so each game gets its own.
func NewStrategy(sc StrategyConfig) (agent.Strategy, error) {
	switch sc.Kind {
	case KindGreedy:
		gain, err := gainFn(sc.Gain)
		if err != nil {
			return nil, err
		}
		better := agent.Higher
		if sc.Lower {
			better = agent.Lower
		}
		return agent.NewGreedy(gain, better), nil

	case KindFull:
		hooks, err := hooksFor(sc.Hooks)
		if err != nil {
			return nil, err
		}
		options := []searcher.Option{searcher.WithMetrics()}
		if sc.Goroutines > 0 {
			options = append(options, searcher.WithGoroutines(sc.Goroutines))
		}
		if sc.Duration > 0 {
			options = append(options, searcher.WithDuration(sc.Duration))
		}
		if sc.Partial {
			options = append(options, searcher.WithPartialOnTimeout(true))
		}
		return agent.NewFullEval(searcher.NewFullEvaluation(hooks, options...)), nil

	case KindRandom:
		return agent.NewRandom(sc.Seed), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy kind %q", ErrInvalidConfig, sc.Kind)
}

func gainFn(name string) (agent.GainFn, error) {
	switch name {
	case "", "score":
		return agent.ScoreGain, nil
	case "open":
		return agent.OpenSpaceGain, nil
	case "fragmentation":
		return agent.FragmentationGain, nil
	}
	return nil, fmt.Errorf("%w: unknown gain %q", ErrInvalidConfig, name)
}

func hooksFor(name string) (searcher.Hooks, error) {
	switch name {
	case "", "score":
		return agent.ScoreHooks(), nil
	case "survival":
		return agent.SurvivalHooks(), nil
	case "compact":
		return agent.CompactHooks(), nil
	}
	return searcher.Hooks{}, fmt.Errorf("%w: unknown hooks %q", ErrInvalidConfig, name)
}
