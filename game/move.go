package game

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

// Move is the decision a strategy reports: which shape to place and where.
type Move struct {
	ShapeID   int
	Placement Placement
}

// NoMove is returned by a strategy that declines to move.
var NoMove = Move{}

func (m Move) IsNone() bool {
	return m.ShapeID == 0
}

func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d@%s", m.ShapeID, m.Placement)
}

// Validate checks the move against the batch it was chosen from. It does not
// check the board.
func (m Move) Validate(batch Batch) error {
	if _, ok := batch[m.ShapeID]; !ok {
		return fmt.Errorf("%w: shape id %d not in batch", ErrIllegalMove, m.ShapeID)
	}
	if !m.Placement.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrIllegalMove, ErrInvalidPlacement, m.Placement)
	}
	return nil
}
