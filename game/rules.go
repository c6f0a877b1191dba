package game

import "fmt"

// Rules decides how many points a placement is worth.
type Rules interface {
	// Increment returns the points for covering cells and clearing lines in
	// one placement. Implementations must not return a negative value.
	Increment(cells, lines int) int
}

type Combo int

const (
	Additive       Combo = iota // lines * PerLine
	Multiplicative              // lines * lines * PerLine
)

func (c Combo) String() string {
	switch c {
	case Additive:
		return "additive"
	case Multiplicative:
		return "multiplicative"
	}
	return fmt.Sprintf("combo(%d)", int(c))
}

func ParseCombo(s string) (Combo, error) {
	switch s {
	case "", "additive":
		return Additive, nil
	case "multiplicative":
		return Multiplicative, nil
	}
	return 0, fmt.Errorf("unknown combo mode %q", s)
}

// ScoreRules is the configurable score increment policy.
type ScoreRules struct {
	PerCell      int
	PerPlacement int
	PerLine      int
	Combo        Combo
}

func StandardRules() *ScoreRules {
	return &ScoreRules{
		PerCell: 1,
		PerLine: 10,
		Combo:   Additive,
	}
}

func (sr *ScoreRules) Validate() error {
	if sr.PerCell < 0 || sr.PerPlacement < 0 || sr.PerLine < 0 {
		return fmt.Errorf("score rules must not be negative: %+v", *sr)
	}
	if sr.Combo != Additive && sr.Combo != Multiplicative {
		return fmt.Errorf("unknown combo mode %d", sr.Combo)
	}
	return nil
}

func (sr *ScoreRules) Increment(cells, lines int) int {
	points := cells*sr.PerCell + sr.PerPlacement
	switch sr.Combo {
	case Multiplicative:
		points += lines * lines * sr.PerLine
	default:
		points += lines * sr.PerLine
	}
	return points
}
