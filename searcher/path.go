package searcher

import (
	"maps"

	"blockpuzzle/game"
)

// Stats holds named statistics gathered by hooks. The zero value is ready to
// use; the map is allocated on first write.
type Stats map[string]float64

func (s *Stats) Set(name string, v float64) {
	if *s == nil {
		*s = make(Stats)
	}
	(*s)[name] = v
}

func (s *Stats) Add(name string, v float64) {
	if *s == nil {
		*s = make(Stats)
	}
	(*s)[name] += v
}

func (s Stats) Get(name string) float64 {
	return s[name]
}

// Candidate is one successful placement inside a path, with the boards
// before and after it. Candidates are shared by every path that extends them
// and must be treated as read-only once the step hook returns.
type Candidate struct {
	ShapeID   int
	Shape     *game.Shape
	Placement game.Placement
	X, Y      int
	Before    game.Board
	After     game.Board
	Eval      float64
	Stats     Stats
}

func (c *Candidate) Move() game.Move {
	return game.Move{ShapeID: c.ShapeID, Placement: c.Placement}
}

// GamePath is one ordering of the batch with a placement for every shape.
type GamePath struct {
	Order      []int // shape ids in placement order
	Candidates []*Candidate
	Eval       float64
	Stats      Stats
}

func (p *GamePath) Len() int {
	return len(p.Candidates)
}

func (p *GamePath) First() *Candidate {
	if len(p.Candidates) == 0 {
		return nil
	}
	return p.Candidates[0]
}

// Move is the path's first placement, the only part reported to the driver.
func (p *GamePath) Move() game.Move {
	if first := p.First(); first != nil {
		return first.Move()
	}
	return game.NoMove
}

// Last returns the board after the final placement, or start when the path
// is empty.
func (p *GamePath) Last(start game.Board) game.Board {
	if len(p.Candidates) == 0 {
		return start
	}
	return p.Candidates[len(p.Candidates)-1].After
}

// extend returns a new branch-local path with c appended. The receiver is not
// modified.
func (p *GamePath) extend(c *Candidate) *GamePath {
	candidates := make([]*Candidate, len(p.Candidates), len(p.Candidates)+1)
	copy(candidates, p.Candidates)
	return &GamePath{
		Order:      p.Order,
		Candidates: append(candidates, c),
		Eval:       p.Eval,
		Stats:      maps.Clone(p.Stats),
	}
}
